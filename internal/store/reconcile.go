package store

import "context"

// Decision is the caller's answer to a per-record conflict.
type Decision int

const (
	// Replace writes the desired record over the existing one.
	Replace Decision = iota
	// Skip leaves the existing record untouched and moves on.
	Skip
	// Abort stops processing all remaining records immediately.
	Abort
)

// ConflictFunc decides what to do when a desired record already exists
// remotely. The CLI supplies an interactive prompt; tests inject a
// canned function.
type ConflictFunc func(desired, existing Parameter) Decision

// UploadResult is the bookkeeping from one reconciliation pass.
type UploadResult struct {
	Uploaded int
	Skipped  int
	Failed   int
	Aborted  bool
}

// ReconcileUpload diffs each desired record against remote state, in
// input order, and applies changes. Records that don't exist remotely,
// or all records when overwriteAll is set, are written without
// consulting decide. Write failures are logged and counted but don't
// stop the loop; only an Abort decision does, leaving the remaining
// records untouched and uncounted.
func (c *Client) ReconcileUpload(ctx context.Context, desired []Parameter, overwriteAll bool, decide ConflictFunc) (UploadResult, error) {
	var res UploadResult

	for _, p := range desired {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		c.logger.Debug("Processing %s", p.Name)

		found, existing, err := c.Exists(ctx, p.Name)
		if err != nil {
			c.logger.Error("Failed to check %s: %v", p.Name, err)
			res.Failed++
			continue
		}

		if found && !overwriteAll {
			decision := Skip
			if decide != nil {
				decision = decide(p, *existing)
			}
			switch decision {
			case Abort:
				res.Aborted = true
				return res, nil
			case Skip:
				res.Skipped++
				c.logger.Info("Skipped %s", p.Name)
				continue
			case Replace:
			}
		}

		if err := c.Put(ctx, p, true); err != nil {
			c.logger.Error("Failed to upload %s: %v", p.Name, err)
			res.Failed++
			continue
		}

		res.Uploaded++
		c.logger.Info("Uploaded %s", p.Name)
	}

	return res, nil
}
