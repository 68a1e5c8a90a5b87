package analysis

import (
	"strings"
	"sync"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/providers"
)

type Factory struct {
	mu        sync.Mutex
	instances map[string]Classifier
}

func NewFactory() *Factory {
	return &Factory{instances: map[string]Classifier{}}
}

func (f *Factory) CreateClassifier(config *ProviderConfig) Classifier {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := config.ProviderName + ":" + config.BaseURL + ":" + config.SentimentModel + ":" + config.EmotionModel
	if classifier, ok := f.instances[key]; ok {
		return classifier
	}

	var classifier Classifier
	name := strings.ToLower(config.ProviderName)
	switch name {
	case "huggingface", "hf", "inference":
		classifier = providers.NewHuggingFace(config)
	default:
		return nil
	}
	f.instances[key] = classifier
	return classifier
}
