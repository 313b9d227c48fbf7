package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var classNameStrip = regexp.MustCompile(`[^0-9a-zA-Z ]`)

// ItemClassName derives the class name for a (product, variant) pair.
// This is the sole idempotence key for item creation, so the cleaning
// rules must stay stable: strip everything outside [0-9a-zA-Z ],
// underscores become spaces, lower-case.
func ItemClassName(productName, productID, variantID string) string {
	clean := classNameStrip.ReplaceAllString(productName, "")
	clean = strings.ToLower(strings.ReplaceAll(clean, "_", " "))
	return fmt.Sprintf("coffee_%s_%s_%s", clean, productID, variantID)
}
