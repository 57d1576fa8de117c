// Package server exposes the storefront over HTTP: the rendered page and the JSON cart API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	*gin.Engine

	Config Config
	logger *zap.Logger
	server *http.Server
}

func New(config Config, logger *zap.Logger) (*Server, error) {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(Recovery(logger))

	tmpl, err := pageTemplate()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	return &Server{
		Engine: engine,
		Config: config,
		logger: logger,
	}, nil
}

func (srv *Server) Addr() string {
	return net.JoinHostPort(srv.Config.Host, fmt.Sprint(srv.Config.Port))
}

// Run serves until Shutdown. It returns nil after a clean shutdown.
func (srv *Server) Run() error {
	srv.logger.Info("run http server",
		zap.String("name", srv.Config.Name),
		zap.String("addr", srv.Addr()),
	)
	srv.server = &http.Server{
		Addr:         srv.Addr(),
		Handler:      srv.Engine,
		ReadTimeout:  srv.Config.ReadTimeout,
		WriteTimeout: srv.Config.RequestTimeout,
	}

	err := srv.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *Server) Shutdown(ctx context.Context) error {
	if srv.server == nil {
		return nil
	}
	return srv.server.Shutdown(ctx)
}
