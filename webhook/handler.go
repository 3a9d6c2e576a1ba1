package webhook

import (
	"errors"
	"net/http"

	"restock/models"
	"restock/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// notifyRequest is the ingress payload shape
type notifyRequest struct {
	Type   string         `json:"type"`
	Embeds []embedPayload `json:"embeds"`
}

type embedPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []fieldPayload `json:"fields"`
}

type fieldPayload struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// handleNotify accepts one notification payload and routes it to every
// configured guild. Only the first embed is processed.
func (s *Server) handleNotify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if len(req.Embeds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must contain at least one embed"})
		return
	}

	notification := toNotification(&req)

	report, err := s.router.Route(c.Request.Context(), notification)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "embed has no description or fields"})
			return
		}
		log.WithError(err).Error("Routing pass failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to route notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivered": report.Delivered(),
		"skipped":   report.Skipped(),
		"failed":    report.Failed(),
	})
}

// toNotification converts the request body into the router's input.
// Extra embeds beyond the first are ignored.
func toNotification(req *notifyRequest) *models.InboundNotification {
	raw := req.Embeds[0]

	embed := models.Embed{
		Title:       raw.Title,
		Description: raw.Description,
		Color:       raw.Color,
	}
	for _, field := range raw.Fields {
		embed.Fields = append(embed.Fields, models.EmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}

	return &models.InboundNotification{
		Type:  models.ParseNotificationType(req.Type),
		Embed: embed,
	}
}
