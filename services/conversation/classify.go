package conversation

import (
	"strings"

	"healthguide/models"
)

// Classify returns kind when the producer set one. Untagged text is treated
// as a location notice when it carries a pin or hospital emoji or mentions
// "nearby" or "location".
func Classify(text string, kind models.MessageKind) models.MessageKind {
	if kind != models.KindUnspecified {
		return kind
	}
	if IsLocationNotice(text) {
		return models.KindLocationNotice
	}
	return models.KindTriage
}

func IsLocationNotice(text string) bool {
	if strings.Contains(text, "📍") || strings.Contains(text, "🏥") {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "nearby") || strings.Contains(lower, "location")
}
