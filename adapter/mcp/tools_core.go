package mcp

import (
	"context"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

func registerCoreTools(srv *mcp.Server, t *toolset) {
	srv.Tool("cli.health").
		Description("Check that the habit store is reachable").
		Handler(t.health)

	srv.Tool("cli.version").
		Description("Get version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})
}

func (t *toolset) health(ctx context.Context, _ struct{}) (map[string]string, error) {
	if c := t.app.Container; c != nil {
		if err := c.DB.Ping(ctx); err != nil {
			return nil, err
		}
		return map[string]string{"status": "ok", "database": c.DB.Driver().String()}, nil
	}
	return map[string]string{"status": "ok"}, nil
}
