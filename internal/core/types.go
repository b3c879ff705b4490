package core

// DefaultTarget is the enrollment goal of the program.
const DefaultTarget = 23500

// Labels used in the sex breakdown. Values are compared exactly after
// trimming; everything else is counted under OtherLabel.
const (
	MaleLabel   = "Masculino"
	FemaleLabel = "Feminino"
	OtherLabel  = "Outros"
)

// EmptyMessage is reported when the worksheet has no data rows.
const EmptyMessage = "Planilha vazia"

// Summary is the dashboard document served by /dados.
// It is built fresh for every request and never cached.
type Summary struct {
	Message string     `json:"mensagem,omitempty"`
	KPIs    KPIs       `json:"kpis"`
	Charts  Charts     `json:"graficos"`
	Map     []MapPoint `json:"mapa"`
}

// KPIs are the scalar indicators of the dashboard.
type KPIs struct {
	TotalStudents       int     `json:"total_alunos"`
	Target              int     `json:"meta_projeto"`
	CompletionRatio     float64 `json:"porcentagem_concluida"`
	TotalStates         int     `json:"total_estados"`
	TotalSchools        int     `json:"total_escolas"`
	TotalMunicipalities int     `json:"total_municipios"`
}

// Charts holds the breakdowns rendered as charts.
type Charts struct {
	StudentsByCourse      map[string]int            `json:"alunos_por_curso"`
	StudentsByState       map[string]int            `json:"alunos_por_estado"`
	MunicipalitiesByState map[string]map[string]int `json:"municipios_por_estado"`
	TopStates             map[string]int            `json:"top_estados"`
	StateRanking          []StateCount              `json:"ranking_estados"`
	Sexes                 map[string]int            `json:"generos"`
	TotalPCD              int                       `json:"total_pcd"`
}

// StateCount is one entry of the ordered state ranking.
type StateCount struct {
	State string `json:"estado"`
	Count int    `json:"qtd"`
}

// MapPoint places a state's participant count on the map.
type MapPoint struct {
	State string  `json:"estado"`
	Count int     `json:"qtd"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Certificate is one lookup match.
type Certificate struct {
	Name   string `json:"nome"`
	Course string `json:"curso"`
	Link   string `json:"link"`
}

// CertificateResult is the document served by /certificados.
type CertificateResult struct {
	Total   int           `json:"total"`
	Results []Certificate `json:"resultados"`
}

// EmptySummary is the dashboard for a worksheet without data rows: every
// indicator is zero and every breakdown is empty.
func EmptySummary(target int) *Summary {
	return &Summary{
		Message: EmptyMessage,
		KPIs:    KPIs{Target: target},
		Charts:  emptyCharts(),
		Map:     []MapPoint{},
	}
}

func emptyCharts() Charts {
	return Charts{
		StudentsByCourse:      map[string]int{},
		StudentsByState:       map[string]int{},
		MunicipalitiesByState: map[string]map[string]int{},
		TopStates:             map[string]int{},
		StateRanking:          []StateCount{},
		Sexes: map[string]int{
			MaleLabel:   0,
			FemaleLabel: 0,
			OtherLabel:  0,
		},
	}
}
