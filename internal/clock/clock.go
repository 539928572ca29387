package clock

import "time"

// Clock is the single source of "now" for the bot. Every timestamp that is
// persisted or compared goes through it so the whole system lives in one
// civil timezone regardless of what the gateway or the database hand back.
type Clock interface {
	Now() time.Time
	In(t time.Time) time.Time
	Location() *time.Location
}

type zoneClock struct {
	loc *time.Location
}

// NewZoneClock returns a Clock pinned to the given IANA timezone name.
func NewZoneClock(timezone string) (Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &zoneClock{loc: loc}, nil
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zoneClock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

func (c *zoneClock) Location() *time.Location {
	return c.loc
}

// Fixed is a Clock frozen at a settable instant, for tests.
type Fixed struct {
	Current time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Current
}

func (f *Fixed) In(t time.Time) time.Time {
	return t.In(f.Current.Location())
}

func (f *Fixed) Location() *time.Location {
	return f.Current.Location()
}

// Advance moves the fixed clock forward and returns the new instant.
func (f *Fixed) Advance(d time.Duration) time.Time {
	f.Current = f.Current.Add(d)
	return f.Current
}
