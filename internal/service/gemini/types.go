package gemini

// Wire types of the generateContent REST call. Only the fields this
// service sends or reads are declared.

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type schema struct {
	Type       string             `json:"type"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type generationConfig struct {
	ResponseMimeType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     *schema       `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
	ImageConfig        *imageConfig  `json:"imageConfig,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

// text concatenates the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// inline returns the first inline payload of the first candidate.
func (r *generateResponse) inline() *inlineData {
	if len(r.Candidates) == 0 {
		return nil
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData
		}
	}
	return nil
}

var scriptSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"hook":         {Type: "STRING"},
		"visualPrompt": {Type: "STRING"},
		"narration":    {Type: "STRING"},
		"title":        {Type: "STRING"},
		"description":  {Type: "STRING"},
		"tags":         {Type: "ARRAY", Items: &schema{Type: "STRING"}},
	},
	Required: []string{"hook", "visualPrompt", "narration", "title", "description", "tags"},
}

var signalSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"action":    {Type: "STRING", Enum: []string{"LONG", "SHORT"}},
		"entry":     {Type: "NUMBER"},
		"tp":        {Type: "NUMBER"},
		"sl":        {Type: "NUMBER"},
		"reasoning": {Type: "STRING"},
		"videoHook": {Type: "STRING"},
	},
	Required: []string{"action", "entry", "tp", "sl", "reasoning", "videoHook"},
}
