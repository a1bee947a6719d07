package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/seed"
	"storefront/internal/service"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "storectl",
		Usage: "Operate the storefront catalog database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "migrations",
				Aliases: []string{"m"},
				Usage:   "Directory holding goose SQL migrations",
				Value:   "migrations",
				EnvVars: []string{"MIGRATIONS_DIR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage schema migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: migrateUpCommand,
					},
					{
						Name:   "status",
						Usage:  "Print the status of every migration",
						Action: migrateStatusCommand,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Insert a demo store with categories, a discount and products",
				Action: seedCommand,
			},
			{
				Name:      "search",
				Usage:     "Run the tiered product search and print the results as JSON",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "store",
						Aliases:  []string{"s"},
						Usage:    "Store id",
						Required: true,
					},
					&cli.Int64Flag{
						Name:     "category",
						Aliases:  []string{"c"},
						Usage:    "Category id; products in its direct children are included",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "suggest",
						Usage: "Print name suggestions for the query as a prefix instead",
					},
				},
			},
		},
	}
}

type env struct {
	cfg    *config.Config
	db     database.Service
	logger *zap.Logger
}

// connect loads configuration and opens the database
func connect() (*env, error) {
	cfg := config.Load()
	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, logger: zlog}, nil
}

func migrateUpCommand(c *cli.Context) error {
	e, err := connect()
	if err != nil {
		return err
	}
	defer e.db.Close()

	return database.RunMigrations(e.db.DB(), c.String("migrations"), e.logger)
}

func migrateStatusCommand(c *cli.Context) error {
	e, err := connect()
	if err != nil {
		return err
	}
	defer e.db.Close()

	states, err := database.GetMigrationStatus(e.db.DB(), c.String("migrations"))
	if err != nil {
		return err
	}

	for _, state := range states {
		status := "pending"
		if state.Applied {
			status = "applied"
		}
		fmt.Printf("%05d  %-8s %s\n", state.Version, status, state.File)
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	e, err := connect()
	if err != nil {
		return err
	}
	defer e.db.Close()

	summary, err := seed.Run(c.Context, e.db.DB())
	if err != nil {
		return err
	}

	fmt.Printf("Seeded store %d with %d products\n", summary.StoreID, summary.Products)
	for name, id := range summary.Categories {
		fmt.Printf("  category %-10s id=%d\n", name, id)
	}
	fmt.Printf("  discount id=%d\n", summary.DiscountID)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("a search query is required", 2)
	}

	e, err := connect()
	if err != nil {
		return err
	}
	defer e.db.Close()

	catalog := service.NewCatalogService(
		repository.NewProductRepository(e.db.DB()),
		repository.NewCategoryRepository(e.db.DB()),
		service.WithLogger(e.logger),
	)

	ctx, cancel := context.WithTimeout(c.Context, e.cfg.Search.Timeout)
	defer cancel()

	var out interface{}
	if c.Bool("suggest") {
		out, err = catalog.Suggest(ctx, c.Int64("store"), c.Int64("category"), query)
	} else {
		out, err = catalog.Search(ctx, c.Int64("store"), c.Int64("category"), query)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
