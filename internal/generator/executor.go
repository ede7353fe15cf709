package generator

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures how a batch of operations runs.
type ExecuteOptions struct {
	DryRun bool      // describe operations instead of performing them
	Force  bool      // overwrite existing files
	Writer io.Writer // defaults to os.Stdout
}

// Execute validates every operation first, then runs them in order. The
// up-front validation pass means a conflict in operation N stops the batch
// before operation 1 touches the disk.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	for _, op := range ops {
		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✔ [PREVIEW] %s\n", op.Description())
			continue
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✔ %s\n", op.Description())
	}

	return nil
}
