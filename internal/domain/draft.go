package domain

import (
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const PinName = "Umi Meme"

type UploadDraft struct {
	FileName    string
	ContentType string
	Image       []byte
	Caption     string
	Hashtags    []string
}

func NormalizeHashtag(raw string) (string, error) {
	tag := strings.TrimSpace(raw)
	if tag == "" || tag == "#" {
		return "", ErrInvalidHashtag
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}

	return tag, nil
}

// AddHashtag returns false when the normalized tag is already present.
func (d *UploadDraft) AddHashtag(raw string) (bool, error) {
	tag, err := NormalizeHashtag(raw)
	if err != nil {
		return false, err
	}
	if slices.Contains(d.Hashtags, tag) {
		return false, nil
	}

	d.Hashtags = append(d.Hashtags, tag)
	return true, nil
}

func (d *UploadDraft) RemoveHashtag(raw string) {
	tag, err := NormalizeHashtag(raw)
	if err != nil {
		return
	}

	d.Hashtags = slices.DeleteFunc(d.Hashtags, func(existing string) bool {
		return existing == tag
	})
}

func (d *UploadDraft) SetImage(name string, data []byte) error {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: %s is %s", ErrInvalidImage, filepath.Base(name), contentType)
	}

	d.FileName = filepath.Base(name)
	d.ContentType = contentType
	d.Image = data
	return nil
}

func (d UploadDraft) Validate() error {
	if len(d.Image) == 0 {
		return fmt.Errorf("%w: no image selected", ErrInvalidImage)
	}
	if !strings.HasPrefix(d.ContentType, "image/") {
		return fmt.Errorf("%w: content type %q", ErrInvalidImage, d.ContentType)
	}

	return nil
}

func (d UploadDraft) PinRequest(now time.Time) PinRequest {
	return PinRequest{
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Data:        d.Image,
		Name:        PinName,
		Description: d.Caption,
		Hashtags:    slices.Clone(d.Hashtags),
		Timestamp:   now,
	}
}

type PinRequest struct {
	FileName    string
	ContentType string
	Data        []byte
	Name        string
	Description string
	Hashtags    []string
	Timestamp   time.Time
}
