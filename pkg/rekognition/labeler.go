package rekognition

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxLabels     = 5
	minConfidence = 75
)

// Label is a detected ingredient with a probability in [0,1]
type Label struct {
	Name        string
	Probability float64
}

// DetectLabelsAPI is the subset of the Rekognition client used here
type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Labeler names what is on a meal photo using AWS Rekognition
type Labeler struct {
	client DetectLabelsAPI
}

func NewLabeler(cfg aws.Config) *Labeler {
	return &Labeler{client: rekognition.NewFromConfig(cfg)}
}

func NewLabelerWithClient(client DetectLabelsAPI) *Labeler {
	return &Labeler{client: client}
}

// Labels returns up to five labels ordered by probability, highest first
func (l *Labeler) Labels(ctx context.Context, image []byte) ([]Label, error) {
	out, err := l.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(maxLabels),
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels: %w", err)
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		var conf float64
		if l.Confidence != nil {
			conf = float64(*l.Confidence) / 100
		}
		labels = append(labels, Label{Name: *l.Name, Probability: conf})
	}

	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Probability > labels[j].Probability })
	if len(labels) > maxLabels {
		labels = labels[:maxLabels]
	}
	return labels, nil
}
