package domain

// Vocabulary - словари эвристик и строки-заглушки.
// Передаются конфигурацией, чтобы локаль можно было заменить без изменения алгоритма.
type Vocabulary struct {
	// Классификация сектора по тегам собственности
	OwnershipTagKeys []string
	PublicTagTerms   []string
	PrivateTagTerms  []string

	// Эвристика по имени и оператору
	PublicNameTerms  []string
	PrivateNameTerms []string

	PublicLabel     string
	PrivateLabel    string
	ProbableSuffix  string
	SectorUnknown   string
	MethodTags      string
	MethodHeuristic string
	MethodNone      string
	MethodProxy     string

	// Распознавание улиц/площадей/районов
	RoadPrefixes   []string
	AreaSubstrings []string

	// Локальный текстовый поиск
	SearchTerms      []string
	SearchRadii      []int
	POICategoryMarks []string

	// Подписи типов учреждений
	KindSchool       string
	KindKindergarten string
	KindCollege      string
	KindUniversity   string
	KindGeneric      string

	UnnamedCandidate  string
	NameNotIdentified string
	PlaceholderMarker string
	AddressNotFound   string

	SourceOverpass      string
	SourceNominatim     string
	SourceReverse       string
	SourceWikidata      string
	SourceWikimedia     string
	SourcePlacesProxy   string
	WikipediaDefaultLng string
}

// DefaultVocabulary - словари для pt-BR
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		OwnershipTagKeys: []string{"operator:type", "ownership", "operator:sector", "operator_type"},
		PublicTagTerms: []string{
			"government", "public", "municipal", "state", "federal", "publico", "pública", "publica",
		},
		PrivateTagTerms: []string{"private", "privado", "privada", "particular"},

		PublicNameTerms: []string{
			"escola municipal", "municipal", "prefeitura", "secretaria",
			"estadual", "colégio estadual", "colegio estadual", "governo",
			"instituto federal", "universidade federal", "federal", "uf",
			"rede estadual", "rede municipal",
		},
		PrivateNameTerms: []string{
			"particular", "privada", "colégio", "colegio", "instituto", "faculdade", "universidade",
			"adventista", "sesi", "senai", "senac", "objetivo", "pitagoras", "pítagoras", "anglo", "coc", "maple bear",
		},

		PublicLabel:     "Pública",
		PrivateLabel:    "Privada",
		ProbableSuffix:  " (provável)",
		SectorUnknown:   "Não informado",
		MethodTags:      "tags",
		MethodHeuristic: "heurística",
		MethodNone:      "nenhum",
		MethodProxy:     "proxy",

		RoadPrefixes:   []string{"rua", "avenida", "travessa", "praça", "praca"},
		AreaSubstrings: []string{"bairro"},

		SearchTerms:      []string{"escola", "colégio", "creche", "universidade", "faculdade"},
		SearchRadii:      []int{30, 120, 250},
		POICategoryMarks: []string{"amenity", "building", "education"},

		KindSchool:       "Escola",
		KindKindergarten: "Creche / Pré-escola",
		KindCollege:      "Faculdade / Colégio",
		KindUniversity:   "Universidade",
		KindGeneric:      "Educação",

		UnnamedCandidate:  "(sem nome no OSM)",
		NameNotIdentified: "Estabelecimento de ensino (não identificado)",
		PlaceholderMarker: "não identificado",
		AddressNotFound:   "Endereço não encontrado automaticamente",

		SourceOverpass:      "OSM (Overpass)",
		SourceNominatim:     "Nominatim (busca local)",
		SourceReverse:       "Nominatim (endereço)",
		SourceWikidata:      " + Wikidata",
		SourceWikimedia:     " + Wikimedia",
		SourcePlacesProxy:   "Google (proxy)",
		WikipediaDefaultLng: "pt",
	}
}
