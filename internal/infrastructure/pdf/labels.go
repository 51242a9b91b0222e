package pdf

import appbilling "github.com/jhoicas/Cotizaciones-api/internal/application/billing"

// templateLabels textos que cambian entre plantillas.
type templateLabels struct {
	title     string
	dateLabel string
	signature string // vacío = sin línea de firma
}

// labelSet etiquetas fijas del documento en un idioma.
type labelSet struct {
	templates map[string]templateLabels

	customer      string
	contact       string
	phone         string
	fax           string
	taxID         string
	invoiceTitle  string
	invoiceNumber string
	issueDate     string
	invoiceType   string

	colNo        string
	colItem      string
	colQuantity  string
	colUnitPrice string
	colAmount    string
	noItems      string

	subtotal string
	tax      string
	total    string
	remarks  string

	pagePattern string
}

var chineseLabels = labelSet{
	templates: map[string]templateLabels{
		appbilling.TemplateInvoice:   {title: "請款單", dateLabel: "請款日期"},
		appbilling.TemplateQuotation: {title: "報價單", dateLabel: "報價日期", signature: "客戶簽章：＿＿＿＿＿＿＿＿"},
	},
	customer:      "客戶名稱",
	contact:       "聯絡人",
	phone:         "電話",
	fax:           "傳真",
	taxID:         "統一編號",
	invoiceTitle:  "發票抬頭",
	invoiceNumber: "單號",
	issueDate:     "發票日期",
	invoiceType:   "發票種類",
	colNo:         "No",
	colItem:       "品項",
	colQuantity:   "數量",
	colUnitPrice:  "單價",
	colAmount:     "金額",
	noItems:       "（無品項）",
	subtotal:      "小計",
	tax:           "營業稅",
	total:         "總計",
	remarks:       "備註",
	pagePattern:   "第 {current} / {total} 頁",
}

var englishLabels = labelSet{
	templates: map[string]templateLabels{
		appbilling.TemplateInvoice:   {title: "INVOICE", dateLabel: "Billing date"},
		appbilling.TemplateQuotation: {title: "QUOTATION", dateLabel: "Quote date", signature: "Customer signature: ______________"},
	},
	customer:      "Customer",
	contact:       "Contact",
	phone:         "Phone",
	fax:           "Fax",
	taxID:         "Tax ID",
	invoiceTitle:  "Invoice title",
	invoiceNumber: "Number",
	issueDate:     "Issue date",
	invoiceType:   "Invoice type",
	colNo:         "No",
	colItem:       "Item",
	colQuantity:   "Qty",
	colUnitPrice:  "Unit price",
	colAmount:     "Amount",
	noItems:       "(no items)",
	subtotal:      "Subtotal",
	tax:           "Tax",
	total:         "Total",
	remarks:       "Remarks",
	pagePattern:   "Page {current} of {total}",
}
