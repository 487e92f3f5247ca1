// Package bulkgen turns a topic list into generated post drafts without
// touching the browser.
package bulkgen

import (
	"context"
	"fmt"
	"log"

	"github.com/ajrudell/engagekit/internal/generator"
	"github.com/ajrudell/engagekit/internal/table"
)

// Runner generates one post per topic and rewrites the output table after
// each topic, so an interrupted run keeps everything generated so far.
type Runner struct {
	gen generator.Generator
}

func NewRunner(gen generator.Generator) *Runner {
	return &Runner{gen: gen}
}

// Run reads topics from inputPath and writes generated drafts to
// outputPath. A per-topic generation failure is logged and skipped; only
// I/O problems abort the run.
func (r *Runner) Run(ctx context.Context, inputPath, outputPath string) error {
	topics, err := table.ReadTopics(inputPath)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return fmt.Errorf("%s: no topics to generate from", inputPath)
	}

	var posts []string
	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := r.gen.Generate(ctx, topic)
		if err != nil {
			log.Printf("Failed to generate for topic %q: %v", topic, err)
			continue
		}
		posts = append(posts, text)
		log.Printf("Generated post %d/%d", i+1, len(topics))

		if err := table.WritePosts(outputPath, posts); err != nil {
			return err
		}
	}
	return nil
}
