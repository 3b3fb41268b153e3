package sale

import (
	"io"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt 小票事件（销售提交后投递到消息队列）
type Receipt struct {
	SaleNo        string          `json:"sale_no"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email"`
	Lines         []ReceiptLine   `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReceiptLine 小票行
type ReceiptLine struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewReceipt 由销售单生成小票，names为商品ID到名称的映射
func NewReceipt(s *Sale, names map[uint]string) Receipt {
	lines := make([]ReceiptLine, len(s.Items))
	for i, item := range s.Items {
		name := item.ProductName
		if n, ok := names[item.ProductID]; ok {
			name = n
		}
		lines[i] = ReceiptLine{
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		}
	}
	return Receipt{
		SaleNo:        s.SaleNo,
		CustomerName:  s.Customer.Name,
		CustomerEmail: s.Customer.Email,
		Lines:         lines,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
	}
}

var receiptTmpl = template.Must(template.New("receipt").Parse(
	`销售单号: {{.SaleNo}}
时间: {{.CreatedAt.Format "2006-01-02 15:04:05"}}
{{- if .CustomerName}}
顾客: {{.CustomerName}}
{{- end}}
----------------------------------------
{{- range .Lines}}
{{.ProductName}}  {{.Quantity.String}} x {{.Price.StringFixed 2}} = {{.Subtotal.StringFixed 2}}
{{- end}}
----------------------------------------
合计: {{.Total.StringFixed 2}}
`))

// Render 输出纯文本小票
func (r Receipt) Render(w io.Writer) error {
	return receiptTmpl.Execute(w, r)
}
