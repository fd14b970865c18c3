package di

import (
	"github.com/ca-srg/opday/interface/cli"
)

// newCLIController creates the CLI controller from the container's services
func newCLIController(c *Container) *cli.CLIController {
	return cli.NewCLIController(
		c.boundaryService,
		c.metricsService,
		c.configService,
		c.consolePresenter,
		c.jsonPresenter,
		c.CreateLogger("cli"),
		c.version,
	)
}
