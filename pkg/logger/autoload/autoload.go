// Package autoload initializes the global logger from the LOG_* environment
// on import. Import it for side effects from main.
package autoload

import (
	configx "github.com/pattarapon/agentrun/pkg/config"
	logx "github.com/pattarapon/agentrun/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
