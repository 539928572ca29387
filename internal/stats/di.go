package stats

import (
	"github.com/fjordlab/afkwatch/internal/clock"
	"github.com/fjordlab/afkwatch/internal/config"
	"github.com/fjordlab/afkwatch/internal/discord"
	"github.com/fjordlab/afkwatch/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (clock.Clock, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return clock.NewZoneClock(cfg.Timezone)
	})
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		dc := do.MustInvoke[discord.Client](i)
		clk := do.MustInvoke[clock.Clock](i)
		return NewManager(cfg, repo, dc, clk), nil
	})
}
