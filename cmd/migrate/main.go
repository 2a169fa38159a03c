package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"freedom_wall/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	dir := flag.String("dir", "migrations", "迁移文件目录")
	down := flag.Bool("down", false, "回滚全部迁移")
	force := flag.Int("force", -1, "强制设置版本（修复 dirty 状态）")
	flag.Parse()

	_ = godotenv.Load()
	config.LoadConfig()
	dsn := config.GlobalConfig.Database.URL
	if !strings.HasPrefix(dsn, "postgres") {
		log.Fatalf("migrations only apply to postgres, got %q (sqlite uses auto migrate)", dsn)
	}

	m, err := migrate.New("file://"+*dir, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch {
	case *force >= 0:
		err = m.Force(*force)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}

	// dirty 状态需要人工确认后用 -force 修复
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		log.Fatalf("database is dirty at version %d, fix it and rerun with -force %d", dirty.Version, dirty.Version-1)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	version, isDirty, _ := m.Version()
	log.Printf("Migration successful, version=%d dirty=%v", version, isDirty)
}
