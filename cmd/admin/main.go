// Command admin creates the first administrator, or promotes an existing
// account and resets its password. It uses the same configuration sources
// as the server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/shadowinterview/internal/admin"
	"github.com/dmitrijs2005/shadowinterview/internal/flagx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/config"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shadowinterview/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	username := fs.String("user", "", "admin username (prompted when empty)")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user"}))

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	b := admin.NewBootstrapper(services.NewUserService(db, rm, cfg), os.Stdin, os.Stdout)
	if err := b.Run(ctx, *username); err != nil {
		log.Fatalf("%v", err)
	}

}
