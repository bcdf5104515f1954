package models

// Exchange is one question/answer round of a dialog.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// DialogTranscript is the rendered conversation about one image.
type DialogTranscript struct {
	ImageID   string     `json:"image_id"`
	ImagePool []string   `json:"img_pool"`
	Caption   string     `json:"caption"`
	Dialog    []Exchange `json:"dialog"`
}

// RunMetadata records how the transcripts were produced.
type RunMetadata struct {
	QuestionerCheckpoint string `json:"qbot"`
	AnswererCheckpoint   string `json:"abot"`
	BeamSize             int    `json:"beamSize"`
	Decoder              string `json:"decoder"`
	Encoder              string `json:"encoder"`
}

// OutputDocument is the content of results.json.
type OutputDocument struct {
	Data []DialogTranscript `json:"data"`
	Opts RunMetadata        `json:"opts"`
}
