package locale

// table is the raw definition of one locale. The first spelling of each
// month is its display name.
type table struct {
	code       string
	name       string
	months     [12][]string
	ordinals   []string // suffixes written directly after a day number
	connectors []string // words allowed between day, month and year ("15 de marzo de 1963")
	yearMarker string   // suffix written after a year in year-first dates
}

var builtinTables = []table{
	{
		code: "en",
		name: "English",
		months: [12][]string{
			{"January", "Jan"},
			{"February", "Feb"},
			{"March", "Mar"},
			{"April", "Apr"},
			{"May"},
			{"June", "Jun"},
			{"July", "Jul"},
			{"August", "Aug"},
			{"September", "Sept", "Sep"},
			{"October", "Oct"},
			{"November", "Nov"},
			{"December", "Dec"},
		},
		ordinals: []string{"st", "nd", "rd", "th"},
	},
	{
		code: "es",
		name: "Español",
		months: [12][]string{
			{"Enero", "Ene"},
			{"Febrero", "Feb"},
			{"Marzo", "Mar"},
			{"Abril", "Abr"},
			{"Mayo", "May"},
			{"Junio", "Jun"},
			{"Julio", "Jul"},
			{"Agosto", "Ago"},
			{"Septiembre", "Setiembre", "Sept", "Sep"},
			{"Octubre", "Oct"},
			{"Noviembre", "Nov"},
			{"Diciembre", "Dic"},
		},
		ordinals:   []string{"º", "ª", "°", "o", "a"},
		connectors: []string{"de", "del"},
	},
	{
		code: "fr",
		name: "Français",
		months: [12][]string{
			{"Janvier", "Janv"},
			{"Février", "Fevrier", "Févr", "Fevr", "Fév", "Fev"},
			{"Mars"},
			{"Avril", "Avr"},
			{"Mai"},
			{"Juin"},
			{"Juillet", "Juil"},
			{"Août", "Aout", "Aoû"},
			{"Septembre", "Sept"},
			{"Octobre", "Oct"},
			{"Novembre", "Nov"},
			{"Décembre", "Decembre", "Déc", "Dec"},
		},
		ordinals: []string{"ère", "ème", "eme", "er", "re", "e"},
	},
	{
		code: "ja",
		name: "日本語",
		months: [12][]string{
			{"1月", "01月"},
			{"2月", "02月"},
			{"3月", "03月"},
			{"4月", "04月"},
			{"5月", "05月"},
			{"6月", "06月"},
			{"7月", "07月"},
			{"8月", "08月"},
			{"9月", "09月"},
			{"10月"},
			{"11月"},
			{"12月"},
		},
		ordinals:   []string{"日"},
		yearMarker: "年",
	},
}
