package mongostore

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

type locationDocument struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type reportDocument struct {
	Reporter      string `bson:"reporter"`
	ReporterScore int    `bson:"reporter_score"`
}

// spotDocument is the bson shape of a spot. Ids are stored as canonical uuid
// strings so they stay readable from the mongo shell.
type spotDocument struct {
	ID        string           `bson:"_id"`
	Title     string           `bson:"title"`
	CreatorID string           `bson:"creator_id"`
	Location  locationDocument `bson:"location"`
	Floor     string           `bson:"floor"`
	TagID     string           `bson:"tag_id"`
	Reviews   []string         `bson:"reviews"`
	Rating    float64          `bson:"rating"`
	Reports   []reportDocument `bson:"reports"`
	Version   int              `bson:"version"`
	Timestamp time.Time        `bson:"timestamp"`
}

func toDocument(s *models.Spot) spotDocument {
	return spotDocument{
		ID:        s.ID.String(),
		Title:     s.Title,
		CreatorID: s.CreatorID.String(),
		Location:  locationDocument{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude},
		Floor:     s.Floor,
		TagID:     s.TagID.String(),
		Reviews:   idStrings(s.Reviews),
		Rating:    s.Rating,
		Reports:   reportDocuments(s.Reports),
		Version:   s.Version,
		Timestamp: s.CreatedAt,
	}
}

func (d spotDocument) toModel() (*models.Spot, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	creator, err := uuid.Parse(d.CreatorID)
	if err != nil {
		return nil, err
	}
	tag, err := uuid.Parse(d.TagID)
	if err != nil {
		return nil, err
	}
	reviews := make([]uuid.UUID, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		rid, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rid)
	}
	reports := make([]models.SpotReport, 0, len(d.Reports))
	for _, r := range d.Reports {
		reporter, err := uuid.Parse(r.Reporter)
		if err != nil {
			return nil, err
		}
		reports = append(reports, models.SpotReport{Reporter: reporter, ReporterScore: r.ReporterScore})
	}
	return &models.Spot{
		ID:        id,
		Title:     d.Title,
		CreatorID: creator,
		Location:  models.Location{Latitude: d.Location.Latitude, Longitude: d.Location.Longitude},
		Floor:     d.Floor,
		TagID:     tag,
		Reviews:   reviews,
		Rating:    d.Rating,
		Reports:   reports,
		Version:   d.Version,
		CreatedAt: d.Timestamp.UTC(),
	}, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func reportDocuments(reports []models.SpotReport) []reportDocument {
	out := make([]reportDocument, len(reports))
	for i, r := range reports {
		out[i] = reportDocument{Reporter: r.Reporter.String(), ReporterScore: r.ReporterScore}
	}
	return out
}
