package site

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Icon is the closed set of service and feature icons. Records store the token form.
type Icon int

const (
	IconUnknown Icon = iota
	IconConversation
	IconBulb
	IconEdit
	IconFile
	IconBuildingHouse
	IconCheckCircle
	IconLeaf
	IconCertification
	IconHome
	IconBuildings
	IconPaint
	IconRuler
	IconLandscape
	IconCube
)

var iconTokens = map[string]Icon{
	"bx-conversation":   IconConversation,
	"bx-bulb":           IconBulb,
	"bx-edit":           IconEdit,
	"bx-file":           IconFile,
	"bx-building-house": IconBuildingHouse,
	"bx-check-circle":   IconCheckCircle,
	"bx-leaf":           IconLeaf,
	"bx-certification":  IconCertification,
	"bx-home":           IconHome,
	"bx-buildings":      IconBuildings,
	"bx-paint":          IconPaint,
	"bx-ruler":          IconRuler,
	"bx-landscape":      IconLandscape,
	"bx-cube":           IconCube,
}

// fallbackToken is drawn for IconUnknown so a bad token stays visible on the page.
const fallbackToken = "bx-help-circle"

// ParseIcon maps a token such as "bx-bulb" to its Icon. The "bx " class prefix is accepted.
func ParseIcon(token string) (Icon, bool) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	normalized = strings.TrimSpace(strings.TrimPrefix(normalized, "bx "))
	icon, ok := iconTokens[normalized]
	if !ok {
		return IconUnknown, false
	}
	return icon, true
}

// ResolveIcon parses token and logs tokens outside the enumeration.
func ResolveIcon(logger *logrus.Logger, token string) Icon {
	icon, ok := ParseIcon(token)
	if !ok && logger != nil {
		logger.WithFields(logrus.Fields{"component": "site.icons", "token": token}).Warn("unknown icon token")
	}
	return icon
}

// Token returns the canonical token, or the fallback glyph for IconUnknown.
func (i Icon) Token() string {
	for token, icon := range iconTokens {
		if icon == i {
			return token
		}
	}
	return fallbackToken
}

// Class returns the CSS classes that draw the icon.
func (i Icon) Class() string {
	if i == IconUnknown {
		return "bx " + fallbackToken + " icon-unknown"
	}
	return "bx " + i.Token()
}

func (i Icon) String() string {
	if i == IconUnknown {
		return "unknown"
	}
	return i.Token()
}
