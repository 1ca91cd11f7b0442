package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Controller redirects a live call to a human by updating it through the
// Twilio REST API with new TwiML. This is the out-of-band escalation path;
// the media stream keeps running until Twilio executes the redirect.
type Controller struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

func NewController(accountSID, authToken string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Transfer points the call at the given E.164 number. A non-2xx answer is an
// error so the caller can roll back its transfer latch and still reach a
// normal terminal.
func (c *Controller) Transfer(ctx context.Context, callSID, number string) error {
	if callSID == "" || number == "" {
		return fmt.Errorf("transfer: call sid and number required")
	}

	twiml := "<Response><Dial>" + number + "</Dial></Response>"
	form := url.Values{}
	form.Set("Twiml", twiml)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls/%s.json", c.baseURL, c.accountSID, callSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("transfer: twilio returned %d: %s", resp.StatusCode, body)
	}

	c.log.Info("call transferred", "call_sid", callSID, "to", number)
	return nil
}
