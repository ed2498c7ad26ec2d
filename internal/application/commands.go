package application

import (
	"strings"

	"github.com/bnema/umi-memepool/internal/domain"
)

type SubmitMemeCommand struct {
	FileName string
	Image    []byte
	Caption  string
	Hashtags []string
}

// Draft builds a validated upload draft. Duplicate hashtags collapse to one.
func (c SubmitMemeCommand) Draft() (domain.UploadDraft, error) {
	draft := domain.UploadDraft{Caption: strings.TrimSpace(c.Caption)}
	if err := draft.SetImage(c.FileName, c.Image); err != nil {
		return domain.UploadDraft{}, err
	}

	for _, raw := range c.Hashtags {
		for _, tag := range strings.Split(raw, ",") {
			if strings.TrimSpace(tag) == "" {
				continue
			}
			if _, err := draft.AddHashtag(tag); err != nil {
				return domain.UploadDraft{}, err
			}
		}
	}

	return draft, draft.Validate()
}
