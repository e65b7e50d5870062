package internal

// ReceiptRow is one input row from the source spreadsheet, already filtered
// by client prefix. Link is empty when the number cell carries no hyperlink
// and no plain URL.
type ReceiptRow struct {
	Number   string
	Client   string
	Date     string
	Product  string
	Quantity string
	Link     string
}

// OutputRow is a ReceiptRow with its resolved "Предал" name. Responsible is
// empty when the marker was not found, the fetch failed, or the document was
// not textual.
type OutputRow struct {
	Number      string
	Responsible string
	Date        string
	Product     string
	Quantity    string
	Link        string
}

// NumberLink pairs a distinct document number with its hyperlink, for the
// number->name extraction command.
type NumberLink struct {
	Number string
	Link   string
}

// Group holds the output rows of one responsible person, in input order.
type Group struct {
	Name string
	Rows []OutputRow
}

// UnknownResponsible is the sentinel group name for rows whose "Предал"
// value could not be resolved.
const UnknownResponsible = "Неизвестен"
