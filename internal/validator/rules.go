package validator

import (
	"log"
	"regexp"

	"folio_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var slugRe = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// IsSlug reports whether s is a legal URL-safe slug. Route handlers use it
// for path parameters, which never pass through struct validation.
func IsSlug(s string) bool {
	return s != "" && len(s) <= 100 && slugRe.MatchString(s)
}

// registerCustomRules installs all custom validation tags on the given
// validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'slug': URL-safe identifier for portfolios and works
	mustRegister("slug", validateSlug)

	// 'attachment-kind': one of the closed WorkAttachment kinds
	mustRegister("attachment-kind", validateAttachmentKind)
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empties are 'required's job
	}
	return slugRe.MatchString(value)
}

func validateAttachmentKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.AttachmentKind(value) {
	case models.AttachmentDownloadWindows, models.AttachmentDownloadLinux,
		models.AttachmentDownloadMac, models.AttachmentCoverImage,
		models.AttachmentTrailer, models.AttachmentScreenshot:
		return true
	default:
		return false
	}
}
