package service

// Localizer translates display labels for export surfaces. It is plain
// injected state: construct one in main and hand it to whoever renders
// user-facing text.
type Localizer struct {
	translations map[string]map[string]string
}

// NewLocalizer returns a Localizer seeded with the built-in translation
// table.
func NewLocalizer() *Localizer {
	return &Localizer{translations: builtinTranslations}
}

// Lookup returns the translation of label for lang, or label unchanged when
// no translation exists.
func (l *Localizer) Lookup(label, lang string) string {
	if byLang, ok := l.translations[label]; ok {
		if translated, ok := byLang[lang]; ok {
			return translated
		}
	}
	return label
}

var builtinTranslations = map[string]map[string]string{
	"Name":             {"ru": "Название"},
	"Slug":             {"ru": "Слаг"},
	"Color":            {"ru": "Цвет"},
	"Tags":             {"ru": "Теги"},
	"Measurement Unit": {"ru": "Единица измерения"},
	"Ingredient":       {"ru": "Ингредиент"},
	"Ingredients":      {"ru": "Ингредиенты"},
	"Amount":           {"ru": "Количество"},
	"Cooking time":     {"ru": "Время приготовления, мин"},
	"Portions":         {"ru": "Порции"},
	"Recipes":          {"ru": "Рецепты"},
	"Favorites":        {"ru": "Избранные"},
	"Subscriptions":    {"ru": "Подписки"},
	"Shopping Cart":    {"ru": "Список покупок"},
}
