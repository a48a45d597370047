package service

import (
	"bitlab_backend/internal/model"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content/theory.yaml
var theoryYAML []byte

// TheoryService 理论章节目录，内容随二进制一起发布
type TheoryService struct {
	sections []model.TheorySection
}

func NewTheoryService() (*TheoryService, error) {
	sections, err := parseTheory(theoryYAML)
	if err != nil {
		return nil, err
	}
	return &TheoryService{sections: sections}, nil
}

func parseTheory(data []byte) ([]model.TheorySection, error) {
	var sections []model.TheorySection
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse theory catalog: %w", err)
	}
	for i, s := range sections {
		if s.ID == "" || s.Title == "" {
			return nil, fmt.Errorf("theory section %d: id and title are required", i)
		}
		if sections[i].Topics == nil {
			sections[i].Topics = []model.TheoryTopic{}
		}
	}
	return sections, nil
}

func (s *TheoryService) Sections() []model.TheorySection {
	return s.sections
}
