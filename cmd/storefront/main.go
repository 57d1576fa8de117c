package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xtding233/wayward-coins/internal/cart"
	"github.com/xtding233/wayward-coins/internal/catalog"
	"github.com/xtding233/wayward-coins/internal/config"
	"github.com/xtding233/wayward-coins/internal/log"
	"github.com/xtding233/wayward-coins/internal/rpc"
	"github.com/xtding233/wayward-coins/internal/server"
	"github.com/xtding233/wayward-coins/internal/shop"
	"github.com/xtding233/wayward-coins/internal/store"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "catalog-check":
			os.Exit(catalogCheck(os.Args[2:]))
		case "config":
			os.Exit(configPreview())
		case "help", "--help", "-h":
			showHelp()
			return
		}
	}

	fx.New(
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			config.Load,
			log.New,
			newCatalog,
			newDescriptors,
			shop.NewSessions,
			shop.NewService,
			server.New,
			server.NewHandlers,
			rpc.New,
		),
		fx.Invoke(server.SetupRoutes),
		fx.Invoke(registerHooks),
	).Run()
}

func showHelp() {
	fmt.Println(`Usage: storefront [command]

Commands:
  (none)                 run the HTTP and gRPC servers
  catalog-check <file>   validate a catalog override file
  config                 print the effective configuration`)
}

type catalogOut struct {
	fx.Out

	Loader   *catalog.Loader
	Live     *catalog.Live
	Reloader *catalog.Reloader
}

func newCatalog(cfg catalog.Config, logger *zap.Logger) (catalogOut, error) {
	loader := catalog.NewLoader(cfg.File)
	c, err := loader.Load()
	if err != nil {
		return catalogOut{}, err
	}
	live := catalog.NewLive(c)
	logger.Info("catalog loaded", zap.String("file", cfg.File), zap.Int("products", len(c.Products())))
	return catalogOut{
		Loader:   loader,
		Live:     live,
		Reloader: catalog.NewReloader(loader, live, cfg.ReloadInterval, logger),
	}, nil
}

func newDescriptors(lc fx.Lifecycle, cfg store.Config, sessions cart.SessionConfig, logger *zap.Logger) (*store.Descriptors, error) {
	if cfg.Expiration > 0 && cfg.Expiration < sessions.TTL {
		logger.Warn("store.expiration is shorter than session.ttl; idle sessions may lose their custom package",
			zap.Duration("store_expiration", cfg.Expiration), zap.Duration("session_ttl", sessions.TTL))
	}
	d, err := store.NewFromConfig(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(d.Close))
	return d, nil
}

type hookDeps struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *zap.Logger
	HTTP       *server.Server
	GRPC       *rpc.Server
	GRPCConf   rpc.Config
	Reloader   *catalog.Reloader
	Sessions   *cart.Sessions
}

func registerHooks(d hookDeps) {
	d.Lifecycle.Append(fx.Hook{
		OnStart: d.Reloader.Start,
		OnStop:  d.Reloader.Stop,
	})
	d.Lifecycle.Append(fx.StopHook(d.Sessions.Close))

	if d.GRPCConf.Enabled {
		d.Lifecycle.Append(fx.Hook{
			OnStart: d.GRPC.Start,
			OnStop:  d.GRPC.Stop,
		})
	}

	d.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := d.HTTP.Run(); err != nil {
					d.Logger.Error("http server run error", zap.Error(err))
					_ = d.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := d.HTTP.Shutdown(ctx); err != nil {
				d.Logger.Error("http server shutdown error", zap.Error(err))
			}
			return nil
		},
	})
}

func catalogCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: storefront catalog-check <file>")
		return 2
	}
	c, err := catalog.NewLoader(args[0]).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catalog is invalid:\n  %v\n", err)
		return 1
	}
	for _, s := range c.Sections() {
		fmt.Printf("%s (%d products)\n", s.ID, len(s.Products))
		for _, p := range s.Products {
			fmt.Printf("  %-4s %-20s %8s  $%s\n", p.ID, p.Name, p.AmountDisplay, p.Price.StringFixed(2))
		}
	}
	fmt.Println("Catalog is valid!")
	return 0
}

func configPreview() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to preview config: %v\n", err)
		return 1
	}
	fmt.Print(string(b))
	return 0
}
