package handler

import (
	"bytes"
	"html/template"

	"registration-payment-relay/internal/service"

	"github.com/labstack/echo/v4"
)

type page struct {
	Title        string
	Icon         string
	Heading      string
	Message      string
	SubmissionID string
	Details      [][2]string
	Note         string
	Refresh      bool // reload button for records that may still be in flight
	Retry        bool // re-issue a payment link
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="uk">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>{{.Title}}</title>
	<style>
		body {
			font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
			background: #f5f7fa;
			min-height: 100vh;
			margin: 0;
			display: flex;
			align-items: center;
			justify-content: center;
			color: #333;
		}
		.container {
			background: white;
			border-radius: 12px;
			box-shadow: 0 10px 30px rgba(0,0,0,0.1);
			padding: 40px;
			max-width: 500px;
			width: 90%;
			text-align: center;
		}
		.icon { font-size: 64px; display: block; margin-bottom: 20px; }
		.submission-id {
			background: #f8f9fa;
			padding: 12px;
			border-radius: 6px;
			font-family: monospace;
			word-break: break-all;
		}
		table { margin: 20px auto; text-align: left; }
		td { padding: 4px 8px; }
		button {
			background: #007bff;
			color: white;
			border: none;
			padding: 12px 24px;
			font-size: 16px;
			border-radius: 6px;
			cursor: pointer;
			margin-top: 10px;
		}
		.note { background: #fff3cd; border-radius: 6px; padding: 16px; margin-top: 24px; font-size: 14px; }
	</style>
</head>
<body>
	<div class="container">
		<span class="icon">{{.Icon}}</span>
		<h1>{{.Heading}}</h1>
		<p>{{.Message}}</p>
		{{if .SubmissionID}}<div class="submission-id">ID заявки: {{.SubmissionID}}</div>{{end}}
		{{if .Details}}<table>{{range .Details}}<tr><td>{{index . 0}}</td><td><strong>{{index . 1}}</strong></td></tr>{{end}}</table>{{end}}
		{{if .Refresh}}<button onclick="window.location.reload()">Оновити сторінку</button>{{end}}
		{{if .Retry}}<button id="retry">Спробувати ще раз</button>
		<script>
			document.getElementById("retry").addEventListener("click", async function () {
				const id = {{.SubmissionID}};
				const resp = await fetch("/regenerate-payment/" + encodeURIComponent(id), { method: "POST" });
				if (resp.ok) {
					const body = await resp.json();
					window.location.href = body.payment_link;
				} else {
					window.location.reload();
				}
			});
		</script>{{end}}
		{{if .Note}}<div class="note">{{.Note}}</div>{{end}}
	</div>
</body>
</html>
`))

func renderPage(c echo.Context, code int, p page) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

func pendingPage(submissionID string) page {
	return page{
		Title:        "Платіж не знайдено",
		Icon:         "🔍",
		Heading:      "Платіж не знайдено",
		Message:      "Ми не змогли знайти інформацію про ваш платіж. Можливо, система ще обробляє вашу заявку.",
		SubmissionID: submissionID,
		Refresh:      true,
		Note:         "Якщо ви щойно подали заявку, зачекайте кілька секунд та оновіть сторінку.",
	}
}

func successPage(res *service.Resolution) page {
	reg := res.Registration
	p := page{
		Title:        "Реєстрація завершена",
		Icon:         "✅",
		Heading:      "Оплату отримано",
		Message:      "Дякуємо! Вашу реєстрацію та оплату підтверджено.",
		SubmissionID: res.SubmissionID,
		Details:      [][2]string{{"Сума", reg.Amount.String()}},
	}
	if reg.PaymentDate != nil {
		p.Details = append(p.Details, [2]string{"Дата", reg.PaymentDate.UTC().Format("2006-01-02 15:04 UTC")})
	}
	if reg.TransactionID != "" {
		p.Details = append(p.Details, [2]string{"Транзакція", reg.TransactionID})
	}
	return p
}

func freePage(res *service.Resolution) page {
	return page{
		Title:        "Реєстрація завершена",
		Icon:         "🎉",
		Heading:      "Реєстрацію завершено",
		Message:      "Для вашої категорії участі оплата не потрібна.",
		SubmissionID: res.SubmissionID,
	}
}

func failedPage(res *service.Resolution) page {
	return page{
		Title:        "Помилка платежу",
		Icon:         "❌",
		Heading:      "Помилка платежу",
		Message:      "На жаль, платіж не вдалося завершити. Спробуйте ще раз або зверніться до підтримки.",
		SubmissionID: res.SubmissionID,
		Retry:        true,
		Note:         "Якщо проблема повторюється, зверніться до організаторів конференції.",
	}
}

func errorPage(submissionID string) page {
	return page{
		Title:        "Технічна помилка",
		Icon:         "🔧",
		Heading:      "Технічна помилка",
		Message:      "Виникла технічна помилка. Будь ласка, спробуйте пізніше або зверніться до підтримки.",
		SubmissionID: submissionID,
	}
}
