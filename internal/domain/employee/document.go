package employee

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT/EXPORT DOCUMENT
// JSON-документ состояния для импорта/экспорта. Экспорт отдаёт состояние
// как есть; импорт требует минимум profile и kpis и заменяет состояние
// целиком, без слияния по полям.
// ══════════════════════════════════════════════════════════════════════════════

// Document - сериализуемое представление State.
type Document struct {
	Profile         ProfileDoc        `json:"profile"`
	Points          int               `json:"points"`
	Level           int               `json:"level"`
	KPIs            map[string]int    `json:"kpis"`
	KPIHistory      []KPISnapshotDoc  `json:"kpiHistory"`
	Badges          []string          `json:"badges"`
	Challenges      []ChallengeDoc    `json:"challenges"`
	Evaluations     []EvaluationDoc   `json:"evaluations"`
	FeedbackEntries []FeedbackDoc     `json:"feedbackEntries"`
	Streak          int               `json:"streak"`
	LastCheckIn     *time.Time        `json:"lastCheckIn,omitempty"`
}

// ProfileDoc - профиль в документе.
type ProfileDoc struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// KPISnapshotDoc - снапшот индикаторов в документе.
type KPISnapshotDoc struct {
	Timestamp time.Time      `json:"timestamp"`
	Values    map[string]int `json:"values"`
}

// ChallengeDoc - челлендж в документе.
type ChallengeDoc struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	KPIKey       string `json:"kpiKey"`
	RewardPoints int    `json:"rewardPoints"`
	Progress     int    `json:"progress"`
	Target       int    `json:"target"`
	Status       string `json:"status"`
}

// EvaluationDoc - оценка в документе.
type EvaluationDoc struct {
	Type      string         `json:"type"`
	Scores    map[string]int `json:"scores"`
	Comment   string         `json:"comment"`
	CreatedAt time.Time      `json:"createdAt"`
}

// FeedbackDoc - запись обратной связи в документе.
type FeedbackDoc struct {
	Recipient string    `json:"recipient"`
	Situation string    `json:"situation"`
	Behavior  string    `json:"behavior"`
	Impact    string    `json:"impact"`
	IsPrivate bool      `json:"isPrivate"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToDocument конвертирует состояние в документ.
func (s *State) ToDocument() Document {
	doc := Document{
		Profile: ProfileDoc{
			Name:   s.Profile.Name,
			Role:   s.Profile.Role,
			Avatar: s.Profile.Avatar,
		},
		Points:          int(s.Points),
		Level:           int(s.Level),
		KPIs:            make(map[string]int, len(s.KPIs)),
		KPIHistory:      make([]KPISnapshotDoc, 0, len(s.KPIHistory)),
		Badges:          make([]string, 0, len(s.Badges)),
		Challenges:      make([]ChallengeDoc, 0, len(s.Challenges)),
		Evaluations:     make([]EvaluationDoc, 0, len(s.Evaluations)),
		FeedbackEntries: make([]FeedbackDoc, 0, len(s.FeedbackEntries)),
		Streak:          s.Streak,
		LastCheckIn:     s.LastCheckIn,
	}

	for k, v := range s.KPIs {
		doc.KPIs[string(k)] = int(v)
	}
	for _, snap := range s.KPIHistory {
		values := make(map[string]int, len(snap.Values))
		for k, v := range snap.Values {
			values[string(k)] = int(v)
		}
		doc.KPIHistory = append(doc.KPIHistory, KPISnapshotDoc{
			Timestamp: snap.Timestamp,
			Values:    values,
		})
	}
	for _, id := range s.Badges.IDs() {
		doc.Badges = append(doc.Badges, string(id))
	}
	for _, c := range s.Challenges {
		doc.Challenges = append(doc.Challenges, ChallengeDoc{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			KPIKey:       string(c.KPIKey),
			RewardPoints: c.RewardPoints,
			Progress:     c.Progress,
			Target:       c.Target,
			Status:       string(c.Status),
		})
	}
	for _, e := range s.Evaluations {
		scores := make(map[string]int, len(e.Scores))
		for k, v := range e.Scores {
			scores[string(k)] = v
		}
		doc.Evaluations = append(doc.Evaluations, EvaluationDoc{
			Type:      string(e.Type),
			Scores:    scores,
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		})
	}
	for _, f := range s.FeedbackEntries {
		doc.FeedbackEntries = append(doc.FeedbackEntries, FeedbackDoc{
			Recipient: f.Recipient,
			Situation: f.Situation,
			Behavior:  f.Behavior,
			Impact:    f.Impact,
			IsPrivate: f.IsPrivate,
			CreatedAt: f.CreatedAt,
		})
	}

	return doc
}

// MarshalSnapshot сериализует состояние в JSON-документ.
func MarshalSnapshot(s *State) ([]byte, error) {
	return json.Marshal(s.ToDocument())
}

// UnmarshalSnapshot разбирает документ и восстанавливает состояние.
// Минимальное требование формата: присутствуют объекты profile и kpis,
// иначе shared.ErrInvalidImportFormat.
func UnmarshalSnapshot(id string, data []byte) (*State, error) {
	// Сначала проверяем присутствие обязательных полей как таковых:
	// пустой объект profile и пустой kpis - это тоже отказ.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, shared.WrapError("employee", "Import", shared.ErrInvalidFormat, "document is not a JSON object", err)
	}
	if _, ok := probe["profile"]; !ok {
		return nil, shared.ErrInvalidImportFormat
	}
	if _, ok := probe["kpis"]; !ok {
		return nil, shared.ErrInvalidImportFormat
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, shared.WrapError("employee", "Import", shared.ErrInvalidFormat, "document does not match schema", err)
	}

	return doc.ToState(id)
}

// ToState восстанавливает состояние из документа.
// Уровень всегда пересчитывается из баллов: документ с расхождением
// level/points нормализуется, а не отвергается.
func (d Document) ToState(id string) (*State, error) {
	state := &State{
		ID: id,
		Profile: Profile{
			Name:   d.Profile.Name,
			Role:   d.Profile.Role,
			Avatar: d.Profile.Avatar,
		},
		Points:          Points(d.Points),
		KPIs:            NewKPISet(50),
		KPIHistory:      make([]KPISnapshot, 0, len(d.KPIHistory)),
		Badges:          NewBadgeSet(),
		Challenges:      make([]Challenge, 0, len(d.Challenges)),
		Evaluations:     make([]Evaluation, 0, len(d.Evaluations)),
		FeedbackEntries: make([]Feedback, 0, len(d.FeedbackEntries)),
		Streak:          d.Streak,
		LastCheckIn:     d.LastCheckIn,
		UpdatedAt:       time.Now().UTC(),
	}
	state.Level = CalculateLevel(state.Points)

	for k, v := range d.KPIs {
		key := KPIKey(k)
		if !key.IsValid() {
			continue
		}
		state.KPIs[key] = KPIValue(v).Adjust(0)
	}

	for _, snap := range d.KPIHistory {
		values := NewKPISet(0)
		for k, v := range snap.Values {
			key := KPIKey(k)
			if key.IsValid() {
				values[key] = KPIValue(v).Adjust(0)
			}
		}
		state.KPIHistory = append(state.KPIHistory, KPISnapshot{
			Timestamp: snap.Timestamp,
			Values:    values,
		})
	}
	if len(state.KPIHistory) > KPIHistoryCap {
		state.KPIHistory = state.KPIHistory[len(state.KPIHistory)-KPIHistoryCap:]
	}

	for _, id := range d.Badges {
		state.Badges.Add(BadgeID(id))
	}

	for _, c := range d.Challenges {
		challenge := Challenge{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			KPIKey:       KPIKey(c.KPIKey),
			RewardPoints: c.RewardPoints,
			Progress:     c.Progress,
			Target:       c.Target,
			Status:       ChallengeStatus(c.Status),
		}
		if err := challenge.Validate(); err != nil {
			if errors.Is(err, ErrInvalidChallengeTarget) {
				return nil, shared.WrapError("employee", "Import", shared.ErrInvalidFormat, "invalid challenge in document", shared.ErrInvalidTarget)
			}
			return nil, shared.WrapError("employee", "Import", shared.ErrInvalidFormat, "invalid challenge in document", err)
		}
		state.Challenges = append(state.Challenges, challenge)
	}

	for _, e := range d.Evaluations {
		scores := make(map[KPIKey]int, len(e.Scores))
		for k, v := range e.Scores {
			scores[KPIKey(k)] = v
		}
		state.Evaluations = append(state.Evaluations, Evaluation{
			Type:      EvaluationType(e.Type),
			Scores:    scores,
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		})
	}

	for _, f := range d.FeedbackEntries {
		state.FeedbackEntries = append(state.FeedbackEntries, Feedback{
			Recipient: f.Recipient,
			Situation: f.Situation,
			Behavior:  f.Behavior,
			Impact:    f.Impact,
			IsPrivate: f.IsPrivate,
			CreatedAt: f.CreatedAt,
		})
	}

	if state.Streak < 0 {
		state.Streak = 0
	}

	if err := state.Validate(); err != nil {
		return nil, shared.WrapError("employee", "Import", shared.ErrInvalidFormat, "document violates state invariants", err)
	}

	return state, nil
}
