package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/carslab/funnel-api/pkg/httpclient"
	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/retry"
	"go.uber.org/zap"
)

// CallAsync calls a trigger URL asynchronously with the record id appended.
// Used to notify downstream functions after a lead submission is accepted.
// The ping is retried a few times; exhausting the retries is logged and
// never blocks the submission flow.
func CallAsync(triggerURL, recordID string, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	go func() {
		targetURL := fmt.Sprintf("%s%s", triggerURL, recordID)

		logger.Info("Calling trigger URL",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))

		err := retry.Do(context.Background(), triggerRetryConfig(), "trigger.call", func() error {
			resp, err := httpClient.Get(targetURL)
			if err != nil {
				return fmt.Errorf("trigger request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return fmt.Errorf("trigger returned status %d", resp.StatusCode)
			}
			return nil
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", targetURL),
				zap.String("record_id", recordID))
			return
		}

		logger.Info("Trigger URL called successfully",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))
	}()
}

func triggerRetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.InitialDelay = 500 * time.Millisecond
	cfg.MaxDelay = 2 * time.Second
	return cfg
}
