package audit

import "github.com/nawedy/automatiq/internal/lingua"

// Details is the per-module structured payload. Each module contributes its
// own concrete type so downstream consumers (the notification engine, the
// report generator) work against typed data instead of an untyped blob.
type Details interface {
	DetailKind() string
}

type FailureDetails struct {
	Error string `json:"error"`
}

func (FailureDetails) DetailKind() string { return "failure" }

type SEODetails struct {
	Title           string `json:"title"`
	TitleLength     int    `json:"title_length"`
	MetaDescription string `json:"meta_description"`
	DescLength      int    `json:"desc_length"`
	Canonical       string `json:"canonical"`
	H1Count         int    `json:"h1_count"`
	RobotsMeta      string `json:"robots_meta"`
	ImageCount      int    `json:"image_count"`
	ImagesWithAlt   int    `json:"images_with_alt"`
	OpenGraphTags   int    `json:"open_graph_tags"`
}

func (SEODetails) DetailKind() string { return "seo" }

// CoreWebVitals are heuristic 0-100 sub-scores per vital, derived from fetch
// metadata. Consumed as opaque numbers by the notification engine.
type CoreWebVitals struct {
	LCPScore int `json:"lcp_score"`
	FIDScore int `json:"fid_score"`
	CLSScore int `json:"cls_score"`
}

type PerformanceDetails struct {
	TTFBMillis      int64         `json:"ttfb_ms"`
	BodyBytes       int           `json:"body_bytes"`
	ScriptCount     int           `json:"script_count"`
	StylesheetCount int           `json:"stylesheet_count"`
	ImageCount      int           `json:"image_count"`
	Compressed      bool          `json:"compressed"`
	CacheControl    string        `json:"cache_control"`
	WebVitals       CoreWebVitals `json:"web_vitals"`
}

func (PerformanceDetails) DetailKind() string { return "performance" }

type AccessibilityViolation struct {
	Description string `json:"description"`
	Impact      string `json:"impact"` // minor | moderate | serious | critical
	Count       int    `json:"count"`
}

type AccessibilityDetails struct {
	Violations []AccessibilityViolation `json:"violations"`
	Lang       string                   `json:"lang"`
}

func (AccessibilityDetails) DetailKind() string { return "accessibility" }

type SecurityDetails struct {
	HTTPS           bool     `json:"https"`
	TLSVersion      string   `json:"tls_version"`
	CipherSuite     string   `json:"cipher_suite"`
	CertExpiry      string   `json:"cert_expiry,omitempty"`
	CertDaysLeft    int      `json:"cert_days_left,omitempty"`
	SSLIssues       []string `json:"ssl_issues"`
	Vulnerabilities []string `json:"vulnerabilities"`
	MissingHeaders  []string `json:"missing_headers"`
}

func (SecurityDetails) DetailKind() string { return "security" }

type MobileDetails struct {
	ViewportPresent bool   `json:"viewport_present"`
	ViewportValid   bool   `json:"viewport_valid"`
	Viewport        string `json:"viewport"`
	FixedWidth      bool   `json:"fixed_width"`
	SmallFontHints  int    `json:"small_font_hints"`
	TapTargets      int    `json:"tap_targets"`
}

func (MobileDetails) DetailKind() string { return "mobile" }

type ContentDetails struct {
	Readability lingua.ReadabilityResult `json:"readability"`
	Grammar     lingua.GrammarResult     `json:"grammar"`
	Structure   lingua.StructureResult   `json:"structure"`
}

func (ContentDetails) DetailKind() string { return "content" }

type CrossBrowserDetails struct {
	HasDoctype     bool     `json:"has_doctype"`
	DeprecatedTags []string `json:"deprecated_tags"`
	VendorPrefixes int      `json:"vendor_prefixes"`
	PluginObjects  int      `json:"plugin_objects"`
}

func (CrossBrowserDetails) DetailKind() string { return "crossbrowser" }

type AnalyticsDetails struct {
	Providers []string `json:"providers"`
	Legacy    []string `json:"legacy"`
}

func (AnalyticsDetails) DetailKind() string { return "analytics" }

type ChatbotDetails struct {
	Providers []string `json:"providers"`
}

func (ChatbotDetails) DetailKind() string { return "chatbot" }
