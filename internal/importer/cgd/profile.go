package cgd

// Profile is the column layout of one CGD export. Signed profiles carry a
// single amount column; the card export splits it into debit and credit.
type Profile struct {
	Name   string
	Date   string
	Desc   string
	Amount string
	Debit  string
	Credit string
}

func (p Profile) signed() bool { return p.Amount != "" }

func (p Profile) columns() []string {
	if p.signed() {
		return []string{p.Date, p.Desc, p.Amount}
	}

	return []string{p.Date, p.Desc, p.Debit, p.Credit}
}

// Tried in order against every row; the first full match wins.
var profiles = []Profile{
	{Name: "cartão", Date: "Data", Desc: "Descrição", Debit: "Débito", Credit: "Crédito"},
	{Name: "extrato", Date: "Data mov.", Desc: "Descrição", Amount: "Movimento"},
	{Name: "conta", Date: "Data mov.", Desc: "Descrição", Amount: "Montante"},
}
