package telephony

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kilobco/sb-voice-agent/pkg/logger"
)

// WebhookHandler answers Twilio's voice webhook with the stream TwiML.
//
// NOTE: webhook signature validation is deliberately out of scope here.
type WebhookHandler struct {
	// PublicHost is the externally reachable host for the wss:// URL.
	PublicHost string

	// Dedup is optional; nil disables duplicate-delivery detection.
	Dedup Deduper
}

func (h WebhookHandler) HandleVoice(c *gin.Context) {
	log := logger.FromGin(c)

	if err := c.Request.ParseForm(); err != nil {
		log.Warn("twilio webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	callSID := c.Request.PostFormValue("CallSid")
	from := c.Request.PostFormValue("From")
	to := c.Request.PostFormValue("To")

	if callSID != "" && h.Dedup != nil {
		seen, err := h.Dedup.Seen(c.Request.Context(), callSID)
		if err != nil {
			log.Warn("webhook dedup check failed", "err", err)
		} else if seen {
			log.Info("duplicate webhook delivery", "call_sid", callSID)
		}
	}

	twiml, err := StreamTwiML(h.PublicHost, from, to)
	if err != nil {
		log.Error("twiml render failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}

	log.Info("inbound call", "call_sid", callSID, "from", SanitizePhone(from))
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, twiml)
}
