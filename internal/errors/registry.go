package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// Registered error codes.
const (
	// Binding errors (E1xx). Never fatal, diagnostics only.
	CodeUnknownSignal   = "E101"
	CodeNotWritable     = "E102"
	CodeUnsupportedProp = "E103"
	CodeBadForSyntax    = "E104"

	// Storage errors (E2xx).
	CodeStorageDecode = "E201"
	CodeStorageRead   = "E202"
	CodeStorageWrite  = "E203"

	// Pre-render errors (E3xx).
	CodePrerenderRead  = "E301"
	CodePrerenderParse = "E302"
	CodePrerenderSetup = "E303"
	CodePrerenderWrite = "E304"

	// Config errors (E4xx).
	CodeConfigRead    = "E401"
	CodeConfigInvalid = "E402"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeUnknownSignal: {
		Category:   CategoryBinding,
		Message:    "unknown signal name in binding",
		Detail:     "The attribute value does not match any key in the binding context.",
		Suggestion: "Check the context map passed to Init for the referenced name.",
	},
	CodeNotWritable: {
		Category:   CategoryBinding,
		Message:    "binding target is read-only",
		Detail:     "ibind and iobind require a writable signal; computed and dotted-path signals cannot be written.",
		Suggestion: "Bind the base signal directly, or use obind for one-way output.",
	},
	CodeUnsupportedProp: {
		Category: CategoryBinding,
		Message:  "no input event mapping for bound property",
		Detail:   "ibind only supports properties with a known DOM event (value, checked).",
	},
	CodeBadForSyntax: {
		Category: CategoryBinding,
		Message:  "malformed bind:for expression",
		Detail:   "Expected \"item of items\" or \"item of items by key.path\".",
	},
	CodeStorageDecode: {
		Category: CategoryStorage,
		Message:  "stored signal value is not valid JSON for its type",
		Detail:   "Persisted data is never silently discarded; fix or delete the stored value.",
	},
	CodeStorageRead: {
		Category: CategoryStorage,
		Message:  "failed to read from the key-value store",
	},
	CodeStorageWrite: {
		Category: CategoryStorage,
		Message:  "failed to persist signal value",
	},
	CodePrerenderRead: {
		Category: CategoryPrerender,
		Message:  "failed to read source document",
	},
	CodePrerenderParse: {
		Category: CategoryPrerender,
		Message:  "failed to parse source document",
	},
	CodePrerenderSetup: {
		Category:   CategoryPrerender,
		Message:    "document references an unregistered setup program",
		Suggestion: "Register the named setup with prerender.RegisterSetup before rendering.",
	},
	CodePrerenderWrite: {
		Category: CategoryPrerender,
		Message:  "failed to write rendered document",
	},
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "failed to read configuration file",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "invalid configuration",
	},
}
