package adfile

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"adstudio/internal/domain"
)

// Spec is the on-disk (YAML) or wire (JSON) description of an ad.
type Spec struct {
	ProductName  string `yaml:"product_name" json:"product_name"`
	Script       string `yaml:"script" json:"script"`
	MusicVibe    string `yaml:"music_vibe" json:"music_vibe"`
	CustomPrompt string `yaml:"custom_prompt" json:"custom_prompt"`
	Duration     int    `yaml:"duration" json:"duration"`
	Image        string `yaml:"image" json:"image"`
}

// Load reads a spec from a YAML file. Relative image paths resolve against
// the file's directory.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("adfile: read %s: %w", path, err)
	}
	var s Spec
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("adfile: parse %s: %w", path, err)
	}
	if s.Image != "" && !filepath.IsAbs(s.Image) {
		s.Image = filepath.Join(filepath.Dir(path), s.Image)
	}
	s.Normalize()
	return &s, nil
}

// Normalize trims text fields and applies the default duration.
func (s *Spec) Normalize() {
	if s == nil {
		return
	}
	s.ProductName = strings.TrimSpace(s.ProductName)
	s.Script = strings.TrimSpace(s.Script)
	s.MusicVibe = strings.ToLower(strings.TrimSpace(s.MusicVibe))
	s.CustomPrompt = strings.TrimSpace(s.CustomPrompt)
	s.Image = strings.TrimSpace(s.Image)
	if s.Duration == 0 {
		s.Duration = int(domain.DefaultDuration)
	}
}

// Validate checks the enumerated fields. Missing name, script or image are
// left to the workflow guard.
func (s Spec) Validate() error {
	if !domain.Duration(s.Duration).Valid() {
		return fmt.Errorf("%w: duration must be 8, 16, or 24 seconds", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseMusicVibe(s.MusicVibe); err != nil {
		return err
	}
	return nil
}

// Inputs converts the spec to workflow inputs, reading the image from disk
// when one is referenced.
func (s Spec) Inputs() (domain.GenerationInputs, error) {
	if err := s.Validate(); err != nil {
		return domain.GenerationInputs{}, err
	}
	vibe, _ := domain.ParseMusicVibe(s.MusicVibe)
	in := domain.GenerationInputs{
		ProductName:  s.ProductName,
		Script:       s.Script,
		MusicVibe:    vibe,
		CustomPrompt: s.CustomPrompt,
		Duration:     domain.Duration(s.Duration),
	}
	if s.Image != "" {
		img, err := ReadImage(s.Image)
		if err != nil {
			return domain.GenerationInputs{}, err
		}
		in.ProductImage = img
	}
	return in, nil
}

// ReadImage loads a product image and sniffs its content type.
func ReadImage(path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("adfile: read image: %w", err)
	}
	return &domain.Image{
		Name:     filepath.Base(path),
		MIMEType: DetectImageType(path, data),
		Data:     data,
	}, nil
}

// DetectImageType prefers content sniffing and falls back to the extension.
func DetectImageType(name string, data []byte) string {
	if len(data) > 0 {
		sniffed := http.DetectContentType(data)
		if strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
