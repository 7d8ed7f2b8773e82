package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Amund211/awardtracker/internal/constants"
	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Webhook forwards unlock notifications to the host runtime, which triggers the client event
type Webhook struct {
	httpClient HttpClient
	url        string
	timeout    time.Duration
	tracer     trace.Tracer
}

func NewWebhook(httpClient HttpClient, url string) *Webhook {
	return &Webhook{
		httpClient: httpClient,
		url:        url,
		timeout:    5 * time.Second,
		tracer:     otel.Tracer("awardtracker/notifier/webhook"),
	}
}

func (wh *Webhook) NotifyUnlock(ctx context.Context, playerID string, award domain.AwardDefinition) error {
	ctx, span := wh.tracer.Start(ctx, "Webhook.NotifyUnlock", trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.String("award_id", award.ID),
	))
	defer span.End()

	body, err := json.Marshal(newClientEvent(constants.UNLOCK_CLIENT_EVENT, playerID, award))
	if err != nil {
		err := fmt.Errorf("failed to marshal client event: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, wh.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.url, bytes.NewReader(body))
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)
	req.Header.Set("Content-Type", "application/json")

	resp, err := wh.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to send request: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
			"awardID":  award.ID,
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("host runtime rejected client event: status %d", resp.StatusCode)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
			"awardID":  award.ID,
			"status":   strconv.Itoa(resp.StatusCode),
			"data":     string(data),
		})
		return err
	}

	return nil
}
