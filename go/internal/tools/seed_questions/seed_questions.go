package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/quizshow/go/internal/config"
	"github.com/mcdev12/quizshow/go/internal/dbconfig"
	"github.com/mcdev12/quizshow/go/internal/questionbank"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seed_questions quiz.yaml [more.yaml ...]")
		os.Exit(2)
	}
	ctx := context.Background()

	// Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := questionbank.NewPgxRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ensure schema: %v\n", err)
		os.Exit(1)
	}

	var total, inserted, updated, errs int
	for _, path := range os.Args[1:] {
		qf, err := config.LoadQuizFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", path, err)
			errs++
			continue
		}
		quiz := qf.Quiz
		if quiz.ID == "" {
			quiz.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if err := repo.UpsertQuiz(ctx, quiz); err != nil {
			fmt.Fprintf(os.Stderr, "upsert quiz %s: %v\n", quiz.ID, err)
			errs++
			continue
		}

		for i, q := range qf.Questions {
			total++
			isNew, err := repo.UpsertQuestion(ctx, quiz.ID, i, q)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error upserting question %s/%s: %v\n", quiz.ID, q.ID, err)
				errs++
				continue
			}
			if isNew {
				inserted++
			} else {
				updated++
			}
		}
	}

	fmt.Printf(
		"Questions seed complete: %d total, %d inserted, %d updated, %d errors\n",
		total, inserted, updated, errs,
	)
	if errs > 0 {
		os.Exit(1)
	}
}
