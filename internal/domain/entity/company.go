package entity

// CompanyProfile identifica a la empresa emisora en el encabezado de cada documento.
type CompanyProfile struct {
	Name    string
	Phone   string
	Fax     string
	Address string
	TaxID   string // 統一編號 del emisor
}
