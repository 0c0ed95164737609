package domain

type Translation struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type TranslatedString struct {
	Translation []Translation `json:"translation"`
}

// Get возвращает перевод для языка, иначе первый доступный
func (t TranslatedString) Get(language string) string {
	for _, tr := range t.Translation {
		if tr.Language == language {
			return tr.Value
		}
	}
	if len(t.Translation) > 0 {
		return t.Translation[0].Value
	}
	return ""
}

type Operator struct {
	ID   string           `json:"id"`
	Name TranslatedString `json:"name"`
}

type System struct {
	ID       string           `json:"id"`
	Name     TranslatedString `json:"name"`
	Operator *Operator        `json:"operator,omitempty"`
}
