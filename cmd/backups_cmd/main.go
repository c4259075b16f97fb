package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/kvstore"
	"github.com/2beens/gymlog/internal/logging"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outDir := flag.String("out", "./backups", "dir to write the backup archive to")
	logsPath := flag.String("logs-path", "", "backup logs file path (empty for stdout)")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: *logsPath,
		LogToStdout: *logsPath == "",
		LogLevel:    "debug",
	})

	log.Println("starting gymlog backup ...")

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	archivePath, err := backup(context.Background(), cfg, *outDir, time.Now())
	if err != nil {
		log.Fatalf("backup: %s", err)
	}

	log.Printf("backup written to %s", archivePath)
}

func backup(ctx context.Context, cfg *config.Config, outDir string, now time.Time) (string, error) {
	opened, err := kvstore.Open(ctx, kvstore.OpenParamsFromConfig(cfg))
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := opened.Store.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
	}()

	stagingDir, err := os.MkdirTemp("", "gymlog-backup-")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(stagingDir); err != nil {
			log.Warnf("remove staging dir %s: %s", stagingDir, err)
		}
	}()

	written, err := kvstore.Export(ctx, opened.Store, stagingDir)
	if err != nil {
		return "", err
	}
	log.Debugf("exported %d collections", len(written))

	if err := pkg.EnsureDir(outDir); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}

	archivePath := filepath.Join(outDir, fmt.Sprintf("gymlog-%s.tar.gz", now.Format("20060102-150405")))
	archive, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer archive.Close()

	if err := pkg.Compress(stagingDir, archive); err != nil {
		return "", fmt.Errorf("compress: %w", err)
	}

	return archivePath, nil
}
