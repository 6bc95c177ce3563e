package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeInvalidRoutePath  = "R001"
	CodeDuplicatePath     = "R002"
	CodeDuplicateName     = "R003"
	CodeMissingComponent  = "R004"
	CodeMissingName       = "R005"
	CodeUnknownRouteName  = "R006"
	CodeInvalidNavPath    = "R007"
	CodeDynamicSegment    = "R008"
	CodeNavigationAborted = "R009"

	CodeConfigNotFound = "C001"
	CodeConfigParse    = "C002"
	CodeConfigInvalid  = "C003"

	CodeMalformedMessage = "P001"
	CodeUnknownMessage   = "P002"

	CodeStoreFailure  = "S001"
	CodeAssetNotFound = "S002"

	CodeAssistantFailure = "A001"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (R001-R099)
	// ============================================

	CodeInvalidRoutePath: {
		Category: CategoryRouting,
		Message:  "Invalid route path",
		Detail:   "Route paths must start with \"/\" and already be in canonical form (no trailing slash, no empty, \".\" or \"..\" segments).",
	},
	CodeDuplicatePath: {
		Category: CategoryRouting,
		Message:  "Duplicate route path",
		Detail:   "Two routes in the table are bound to the same path. Every path resolves to exactly one view.",
	},
	CodeDuplicateName: {
		Category: CategoryRouting,
		Message:  "Duplicate route name",
		Detail:   "Two routes in the table share a name. Names are used for symbolic navigation and must be unique.",
	},
	CodeMissingComponent: {
		Category: CategoryRouting,
		Message:  "Route has no component",
		Detail:   "Every route must be bound to exactly one renderable view.",
	},
	CodeMissingName: {
		Category: CategoryRouting,
		Message:  "Route has no name",
		Detail:   "Every route needs a name so it can be reached by symbolic navigation.",
	},
	CodeUnknownRouteName: {
		Category: CategoryNavigation,
		Message:  "Unknown route name",
		Detail:   "No route in the table is registered under this name.",
	},
	CodeInvalidNavPath: {
		Category: CategoryNavigation,
		Message:  "Invalid navigation path",
		Detail:   "Navigation targets must be relative paths starting with \"/\" that stay inside the application root.",
	},
	CodeDynamicSegment: {
		Category: CategoryRouting,
		Message:  "Dynamic route segment not supported",
		Detail:   "Routes match exactly; parameter (:id) and catch-all (*rest) segments are not supported.",
	},
	CodeNavigationAborted: {
		Category: CategoryNavigation,
		Message:  "Navigation aborted",
		Detail:   "A navigation middleware stopped the navigation before it completed.",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "The configuration file does not exist.",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Config parse error",
		Detail:   "The configuration file could not be parsed.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range or not one of the allowed values.",
	},

	// ============================================
	// Protocol Errors (P001-P099)
	// ============================================

	CodeMalformedMessage: {
		Category: CategoryProtocol,
		Message:  "Malformed message",
		Detail:   "The WebSocket message is not a valid JSON navigation message.",
	},
	CodeUnknownMessage: {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The WebSocket message type is not recognized.",
	},

	// ============================================
	// Storage Errors (S001-S099)
	// ============================================

	CodeStoreFailure: {
		Category: CategoryStorage,
		Message:  "Store failure",
		Detail:   "The backing store returned an error.",
	},
	CodeAssetNotFound: {
		Category: CategoryStorage,
		Message:  "Asset not found",
		Detail:   "The requested static asset does not exist in the configured source.",
	},

	// ============================================
	// Assistant Errors (A001-A099)
	// ============================================

	CodeAssistantFailure: {
		Category: CategoryAssistant,
		Message:  "Assistant request failed",
		Detail:   "The language model did not return a reply.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
