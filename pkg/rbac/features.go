package rbac

import "time"

// Unlimited marks quota fields with no cap.
const Unlimited = -1

// SubscriptionPremium is the subscription tier that grants the premium flag
// bundle regardless of role.
const SubscriptionPremium = "premium"

// FeatureFlags is the derived capability bundle computed from role and
// subscription tier. It is a value object: never persisted, recomputed per
// evaluation.
type FeatureFlags struct {
	MaxScansPerDay           int  `json:"max_scans_per_day"`
	CanExportData            bool `json:"can_export_data"`
	CanAccessAPI             bool `json:"can_access_api"`
	CanViewAdvancedAnalytics bool `json:"can_view_advanced_analytics"`
	CanCompareProducts       bool `json:"can_compare_products"`
	HistoryRetentionDays     int  `json:"history_retention_days"`
	PrioritySupport          bool `json:"priority_support"`
	EarlyAccess              bool `json:"early_access"`
	CanUseARFeatures         bool `json:"can_use_ar_features"`
	CanSetGoals              bool `json:"can_set_goals"`
}

var premiumFlags = FeatureFlags{
	MaxScansPerDay:           Unlimited,
	CanExportData:            true,
	CanAccessAPI:             true,
	CanViewAdvancedAnalytics: true,
	CanCompareProducts:       true,
	HistoryRetentionDays:     Unlimited,
	PrioritySupport:          true,
	EarlyAccess:              true,
	CanUseARFeatures:         true,
	CanSetGoals:              true,
}

var freeFlags = FeatureFlags{
	MaxScansPerDay:       50,
	HistoryRetentionDays: 7,
}

// FlagsFor derives the flag bundle for a role and subscription tier. Staff
// roles and premium (by role or by subscription) get the unlimited bundle;
// everyone else gets the free tier.
func FlagsFor(role Role, subscription string) FeatureFlags {
	if role == RoleAdmin || role == RoleModerator {
		return premiumFlags
	}
	if role == RolePremium || subscription == SubscriptionPremium {
		return premiumFlags
	}
	return freeFlags
}

// RoleRateLimit is the role-scaled API quota used for per-user throttling
// above the coarse per-route tiers.
type RoleRateLimit struct {
	Requests int
	Window   time.Duration
}

// RateLimitForRole returns the API quota scaled to the role's tier.
func RateLimitForRole(role Role) RoleRateLimit {
	switch role {
	case RoleAdmin, RoleModerator:
		return RoleRateLimit{Requests: 1000, Window: 15 * time.Minute}
	case RolePremium:
		return RoleRateLimit{Requests: 500, Window: 15 * time.Minute}
	default:
		return RoleRateLimit{Requests: 100, Window: 15 * time.Minute}
	}
}
