package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/course-portal-backend/internal/app"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/services"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "curriculum.yaml", "curriculum YAML to load")
	flag.Parse()

	f, err := os.Open(file)
	if err != nil {
		fmt.Printf("open curriculum: %v\n", err)
		os.Exit(1)
	}
	curriculum, err := ParseCurriculum(f)
	_ = f.Close()
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := application.Log.With("tool", "seed")

	weeks := curriculum.Models()
	if err := application.Repos.Week.UpsertByNumber(dbc, weeks); err != nil {
		log.Error("upsert weeks failed", "error", err)
		os.Exit(1)
	}
	if n, ok := curriculum.CurrentWeek(); ok {
		err := application.DB.WithContext(ctx).Model(&types.Week{}).
			Where("week_number <> ? AND is_current = ?", n, true).
			Updates(map[string]interface{}{"is_current": false, "updated_at": time.Now()}).Error
		if err != nil {
			log.Error("clear previous current week failed", "error", err)
			os.Exit(1)
		}
	}
	log.Info("weeks seeded", "count", len(weeks))

	if in := curriculum.Instructor; in != nil {
		if err := seedInstructor(dbc, application, in); err != nil {
			log.Error("seed instructor failed", "email", in.Email, "error", err)
			os.Exit(1)
		}
		log.Info("instructor ready", "email", in.Email)
	}
}

// seedInstructor registers the account when missing, then makes it an approved instructor.
func seedInstructor(dbc dbctx.Context, application *app.App, in *InstructorSpec) error {
	existing, err := application.Repos.User.GetByEmails(dbc, []string{in.Email})
	if err != nil {
		return err
	}
	var u *types.User
	if len(existing) > 0 {
		u = existing[0]
	} else {
		u, err = application.Services.Auth.Register(dbc, services.RegisterInput{
			Email:     in.Email,
			Password:  in.Password,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		})
		if err != nil {
			return err
		}
	}
	return application.Repos.User.Promote(dbc, u.ID)
}
