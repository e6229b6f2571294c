package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/course-portal-backend/internal/app"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
)

func main() {
	var dryRun bool
	var grace time.Duration
	flag.BoolVar(&dryRun, "dry-run", false, "print orphaned objects without deleting them")
	flag.DurationVar(&grace, "grace", time.Hour, "skip objects uploaded more recently than this")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	log := application.Log.With("tool", "sweep", "dry_run", dryRun)
	bucket := application.Clients.Bucket
	if bucket == nil {
		log.Error("object storage not configured")
		return
	}

	ctx := context.Background()
	keys, err := bucket.ListKeys(ctx, "")
	if err != nil {
		log.Error("list bucket failed", "error", err)
		return
	}
	referenced, err := application.Repos.Material.ReferencedURLs(dbctx.Context{Ctx: ctx})
	if err != nil {
		log.Error("load referenced urls failed", "error", err)
		return
	}

	orphans := Orphans(keys, bucket.GetPublicURL, referenced, time.Now(), grace)
	deleted := 0
	for _, key := range orphans {
		if dryRun {
			fmt.Println(key)
			continue
		}
		if err := bucket.DeleteFile(ctx, key); err != nil {
			log.Warn("delete failed", "key", key, "error", err)
			continue
		}
		deleted++
	}
	log.Info("sweep finished", "objects", len(keys), "orphans", len(orphans), "deleted", deleted)
}
