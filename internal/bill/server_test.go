package bill_test

import (
	"github.com/billscan/billscan/internal/bill"

	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fileResolver reads the staged upload verbatim, mirroring what the real
// resolver does for plain text files.
type fileResolver struct{}

func (fileResolver) Resolve(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// billUpload builds a multipart body carrying a bill file and an optional
// format field.
func billUpload(filename string, content []byte, format string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if format != "" {
		Expect(writer.WriteField("format", format)).To(Succeed())
	}
	part, err := writer.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(content)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		server   *bill.Server
		recorder *httptest.ResponseRecorder
	)

	sampleBill := []byte("Invoice Number: INV123\nTotal Amount Due: Rs. 1,234.50\nDue Date: 01/02/2024")

	BeforeEach(func() {
		server = bill.NewServer(bill.NewService(fileResolver{}), bill.BasicAuth{})
		recorder = httptest.NewRecorder()
	})

	Describe("GET /api/fields", func() {
		It("lists the field names in report order", func() {
			req := httptest.NewRequest("GET", "/api/fields", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Header().Get("Content-Type")).To(Equal("application/json"))

			var fields []string
			Expect(json.Unmarshal(recorder.Body.Bytes(), &fields)).To(Succeed())
			Expect(fields).To(Equal(bill.FieldNames()))
		})
	})

	Describe("POST /api/extractions", func() {
		When("uploading a plain text bill with format=json", func() {
			JustBeforeEach(func() {
				body, contentType := billUpload("bill.txt", sampleBill, "json")
				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(recorder, req)
			})

			It("responds with 200 and JSON", func() {
				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Header().Get("Content-Type")).To(Equal("application/json"))
			})

			It("carries only the matched fields", func() {
				parsed := map[string]string{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &parsed)).To(Succeed())
				Expect(parsed).To(Equal(map[string]string{
					"invoice_number": "INV123",
					"invoice_date":   "01/02/2024",
					"amount_due":     "1,234.50",
					"due_date":       "01/02/2024",
				}))
			})
		})

		When("uploading with format=csv", func() {
			It("responds with CSV", func() {
				body, contentType := billUpload("bill.txt", sampleBill, "csv")
				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Header().Get("Content-Type")).To(Equal("text/csv"))
				Expect(recorder.Body.String()).To(HavePrefix("Key,Value\n"))
			})
		})

		When("no format is given", func() {
			It("defaults to text", func() {
				body, contentType := billUpload("bill.txt", sampleBill, "")
				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Header().Get("Content-Type")).To(Equal("text/plain; charset=utf-8"))
				Expect(recorder.Body.String()).To(ContainSubstring("Invoice Number: INV123"))
			})
		})

		When("the format is unknown", func() {
			It("responds with 400", func() {
				body, contentType := billUpload("bill.txt", sampleBill, "xml")
				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})

		When("the upload exceeds the size cap", func() {
			It("responds with 400 and a size message", func() {
				body, contentType := billUpload("huge.txt", bytes.Repeat([]byte("x"), 50<<20+1), "json")
				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
				Expect(recorder.Body.String()).To(ContainSubstring("too large"))
			})
		})

		When("no file is attached", func() {
			It("responds with 400", func() {
				body := &bytes.Buffer{}
				writer := multipart.NewWriter(body)
				Expect(writer.WriteField("format", "json")).To(Succeed())
				Expect(writer.Close()).To(Succeed())

				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", writer.FormDataContentType())
				server.ServeHTTP(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})

		When("extraction fails", func() {
			BeforeEach(func() {
				server = bill.NewServer(bill.NewService(&mockResolver{err: errors.New("ocr unreachable")}), bill.BasicAuth{})
			})

			It("responds with 422 and the terminal status", func() {
				body, contentType := billUpload("bill.png", []byte("not really an image"), "json")
				req := httptest.NewRequest("POST", "/api/extractions", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusUnprocessableEntity))

				var resp map[string]string
				Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp["error"]).To(Equal("Error: ocr unreachable"))
			})
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			server = bill.NewServer(bill.NewService(fileResolver{}), bill.BasicAuth{Username: "user", Password: "secret"})
		})

		It("rejects requests without credentials", func() {
			req := httptest.NewRequest("GET", "/api/fields", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			Expect(recorder.Header().Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
		})

		It("rejects wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/fields", nil)
			req.SetBasicAuth("user", "wrong")
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts correct credentials", func() {
			req := httptest.NewRequest("GET", "/api/fields", nil)
			req.SetBasicAuth("user", "secret")
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})
	})
})
