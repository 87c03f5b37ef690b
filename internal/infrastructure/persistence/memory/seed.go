package memory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED DATA
// Демо-набор сотрудников для первого запуска и для ResetToSeed.
// ══════════════════════════════════════════════════════════════════════════════

// seedEmployee описывает одного сотрудника демо-набора.
type seedEmployee struct {
	name       string
	role       string
	avatar     string
	points     int
	kpis       map[employee.KPIKey]employee.KPIValue
	challenges []seedChallenge
}

type seedChallenge struct {
	title        string
	kpiKey       employee.KPIKey
	target       int
	rewardPoints int
}

// DefaultSeed возвращает демо-набор сотрудников со стабильными UUID.
// Детерминированные ID нужны, чтобы перезапуск процесса сохранял
// соответствие с write-behind снапшотами.
func DefaultSeed() []*employee.State {
	defs := []seedEmployee{
		{
			name:   "Анна Ковалёва",
			role:   "Продуктовый дизайнер",
			avatar: "🎨",
			points: 420,
			kpis: map[employee.KPIKey]employee.KPIValue{
				employee.KPIProductivity:  62,
				employee.KPICollaboration: 71,
				employee.KPIWellbeing:     58,
				employee.KPIInnovation:    66,
				employee.KPIAbsenteeism:   12,
				employee.KPICulture:       74,
			},
			challenges: []seedChallenge{
				{"Провести 3 воркшопа", employee.KPICollaboration, 3, 120},
				{"Предложить улучшение продукта", employee.KPIInnovation, 1, 150},
			},
		},
		{
			name:   "Дмитрий Соколов",
			role:   "Бэкенд-разработчик",
			avatar: "⚙️",
			points: 850,
			kpis: map[employee.KPIKey]employee.KPIValue{
				employee.KPIProductivity:  78,
				employee.KPICollaboration: 55,
				employee.KPIWellbeing:     61,
				employee.KPIInnovation:    70,
				employee.KPIAbsenteeism:   8,
				employee.KPICulture:       63,
			},
			challenges: []seedChallenge{
				{"Закрыть 10 тикетов за спринт", employee.KPIProductivity, 10, 100},
				{"Отревьюить 5 пул-реквестов коллег", employee.KPICollaboration, 5, 80},
			},
		},
		{
			name:   "Мария Ли",
			role:   "Менеджер по персоналу",
			avatar: "🌱",
			points: 310,
			kpis: map[employee.KPIKey]employee.KPIValue{
				employee.KPIProductivity:  54,
				employee.KPICollaboration: 82,
				employee.KPIWellbeing:     75,
				employee.KPIInnovation:    48,
				employee.KPIAbsenteeism:   5,
				employee.KPICulture:       88,
			},
			challenges: []seedChallenge{
				{"Организовать тимбилдинг", employee.KPICulture, 1, 130},
				{"Неделя без переработок", employee.KPIWellbeing, 5, 90},
			},
		},
		{
			name:   "Тимур Ахметов",
			role:   "Аналитик данных",
			avatar: "📊",
			points: 1240,
			kpis: map[employee.KPIKey]employee.KPIValue{
				employee.KPIProductivity:  84,
				employee.KPICollaboration: 60,
				employee.KPIWellbeing:     52,
				employee.KPIInnovation:    79,
				employee.KPIAbsenteeism:   15,
				employee.KPICulture:       57,
			},
			challenges: []seedChallenge{
				{"Автоматизировать еженедельный отчёт", employee.KPIInnovation, 1, 200},
				{"Подготовить 4 дашборда", employee.KPIProductivity, 4, 110},
			},
		},
	}

	states := make([]*employee.State, 0, len(defs))
	for i, def := range defs {
		state, err := buildSeedState(seedID(i), def)
		if err != nil {
			// Демо-набор обязан быть валидным: ошибка здесь - дефект кода.
			panic(fmt.Sprintf("memory: invalid seed employee %q: %v", def.name, err))
		}
		states = append(states, state)
	}
	return states
}

// seedID выводит стабильный UUID из порядкового номера.
func seedID(i int) string {
	ns := uuid.MustParse("8f14e45f-ceea-467f-a8d9-61b580d0b2cf")
	return uuid.NewSHA1(ns, []byte(fmt.Sprintf("seed-employee-%d", i))).String()
}

// buildSeedState собирает валидное доменное состояние из описания.
func buildSeedState(id string, def seedEmployee) (*employee.State, error) {
	challenges := make([]employee.Challenge, 0, len(def.challenges))
	for _, ch := range def.challenges {
		challenge, err := employee.NewChallenge(uuid.NewString(), ch.title, "", ch.kpiKey, ch.rewardPoints, ch.target)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}

	kpis := employee.NewKPISet(50)
	for key, value := range def.kpis {
		kpis[key] = value
	}

	return employee.NewState(employee.NewStateParams{
		ID: id,
		Profile: employee.Profile{
			Name:   def.name,
			Role:   def.role,
			Avatar: def.avatar,
		},
		Points:     employee.Points(def.points),
		KPIs:       kpis,
		Challenges: challenges,
	})
}
