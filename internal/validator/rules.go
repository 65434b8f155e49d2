package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"memberhub_backend/internal/models"
)

// registerCustomRules registers the domain validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Rule registration failures are a startup misconfiguration.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-membership-tier", validateMembershipTier)
	mustRegister("is-request-type", validateRequestType)
	mustRegister("is-channel", validateChannel)
	mustRegister("is-send-mode", validateSendMode)
}

// --- Validation functions ---

func validateMembershipTier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	switch models.MembershipTier(value) {
	case models.MembershipTierStarter, models.MembershipTierPro, models.MembershipTierElite:
		return true
	}
	return false
}

func validateRequestType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.RequestType(value) {
	case models.RequestTypeNew, models.RequestTypeRenewal, models.RequestTypeUpgrade:
		return true
	}
	return false
}

func validateChannel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.NotificationChannel(value) {
	case models.ChannelEmail, models.ChannelWhatsApp, models.ChannelBoth:
		return true
	}
	return false
}

func validateSendMode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return value == "broadcast" || value == "individual"
}
