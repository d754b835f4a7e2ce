package domain

// Headings holds the page's heading texts, each level joined with " | ".
type Headings struct {
	H1 string `json:"h1"`
	H2 string `json:"h2"`
	H3 string `json:"h3"`
}

// ExtractedPage is the feature bundle pulled from a fetched page. It is
// consumed by the prompt assembler and never persisted.
type ExtractedPage struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    string   `json:"meta_keywords"`
	OGTitle         string   `json:"og_title"`
	OGDescription   string   `json:"og_description"`
	Headings        Headings `json:"headings"`
	StructuredData  string   `json:"structured_data"`
	PricingElements []string `json:"pricing_elements"`
	BuyButtons      []string `json:"buy_buttons"`
	RelevantLinks   []string `json:"relevant_links"`
	BodyText        string   `json:"body_text"`
}
