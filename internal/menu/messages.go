package menu

import (
	"strconv"
	"strings"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgMissingPhone     = "Missing phone number"
	MsgInvalidOption    = "Invalid option selected"
	MsgSystemError      = "System error. Please try again later."
	MsgUnavailable      = "System temporarily unavailable. Please try again later."
	MsgAccountNotFound  = "Account not found. Please register first."
	MsgTraderNotFound   = "Trader account not found. Please register first."
	MsgGoodbye          = "Thank you for using SmartTax Rwanda!"
	MsgInterest         = "Thank you for your interest in SmartTax Rwanda!"
	MsgNoTransactions   = "No transactions found."
	MsgInvalidName      = "Invalid name. Please start again."
	MsgNoDistricts      = "System error: No districts available. Please try later."
	MsgNoSectors        = "No sectors available for selected district. Please try another district."
	MsgInvalidDistrict  = "Invalid district selection. Please start again."
	MsgInvalidSector    = "Invalid sector selection. Please start again."
	MsgInvalidCategory  = "Invalid category. Please start again."
	MsgInvalidNewPIN    = "Invalid PIN. Must be 4 digits. Start again."
	MsgPhoneRegistered  = "Phone number already registered. Please login instead."
	MsgRegisterFailed   = "Registration failed. Please try again."
	MsgWrongPIN         = "Invalid PIN. Please try again."
	MsgInvalidProduct   = "Invalid product name. Please start again."
	MsgInvalidAmount    = "Invalid amount. Please start again."
	MsgPaymentFailed    = "Payment failed. Please try again."
	promptFullName      = "Enter your full name:"
	promptEmail         = "Enter your email address:"
	promptPIN           = "Enter your 4-digit PIN:"
	promptNewPIN        = "Create a 4-digit PIN:"
	promptProduct       = "Enter product/service name:"
	promptPrice         = "Enter product price (RWF):"
	titleDistricts      = "Select your district:"
	titleSectors        = "Select your sector:"
	titleCategories     = "Select your business category:"
	supportPhone        = "3000"
	supportEmail        = "support@smarttax.gov.rw"
	supportWebsite      = "smarttax.gov.rw"
	registeredRootTitle = "SmartTax Rwanda"
	welcomeRootTitle    = "Welcome to SmartTax Rwanda"
)

const (
	notSet             = "Not set"
	dateLayout         = "02/01/2006"
	recentTransactions = 5
)

var printer = message.NewPrinter(language.English)

// Money renders an amount as "RWF 1,234.50"
func Money(d decimal.Decimal) string {
	fixed := d.StringFixed(domain.MinorUnits)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "RWF " + fixed
	}
	sign := ""
	if d.IsNegative() && n == 0 {
		sign = "-"
	}
	return "RWF " + sign + printer.Sprintf("%d", n) + "." + frac
}

func renderOptions(title string, opts []domain.Option) string {
	var b strings.Builder
	b.WriteString(title)
	for i, o := range opts {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(o.Name)
	}
	return b.String()
}

// pick resolves a 1-based selection against the rendered options
func pick(opts []domain.Option, input string) (domain.Option, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(opts) {
		return domain.Option{}, false
	}
	return opts[n-1], true
}

func orNotSet(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

func rootMenu(registered bool) string {
	if registered {
		return registeredRootTitle + "\n" +
			"1. Pay Tax\n" +
			"2. My Transactions\n" +
			"3. Account Balance\n" +
			"4. My Profile\n" +
			"5. Help\n" +
			"0. Exit"
	}
	return welcomeRootTitle + "\n" +
		"1. Register as Trader\n" +
		"2. Login\n" +
		"3. About SmartTax\n" +
		"0. Exit"
}

func helpText() string {
	return "SmartTax Rwanda Support:\n" +
		"Call: " + supportPhone + "\n" +
		"Email: " + supportEmail + "\n" +
		"Website: " + supportWebsite + "\n\n" +
		"Thank you for using SmartTax!"
}

func aboutText(ussdCode string) string {
	return "SmartTax Rwanda:\n" +
		"Digital tax system for traders\n" +
		"Pay taxes via USSD easily\n" +
		"Stay compliant with RRA\n\n" +
		"Dial " + ussdCode + " to start"
}

func transactionsText(txs []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("Recent Transactions:")
	for i, tx := range txs {
		name := tx.ProductName
		if name == "" {
			name = "Transaction"
		}
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i+1) + ". " + name + "\n")
		b.WriteString("   Price: " + Money(tx.ProductPrice) + "\n")
		b.WriteString("   Tax: " + Money(tx.TaxAmount) + "\n")
		b.WriteString("   Trader: " + Money(tx.TraderAmount) + "\n")
		b.WriteString("   Date: " + tx.CreatedAt.Format(dateLayout))
	}
	return b.String()
}

func summaryText(s domain.Summary) string {
	return "Your Tax Summary:\n" +
		"Total Sales: " + Money(s.TotalRevenue) + "\n" +
		"Total Tax Paid: " + Money(s.TotalTax) + "\n" +
		"Your Earnings: " + Money(s.TotalTraderAmount) + "\n" +
		"Transactions: " + strconv.Itoa(s.TotalTransactions) + "\n\n" +
		"Thank you for being compliant!"
}

func profileText(t *domain.Trader, ussdCode string) string {
	return "Your Profile:\n" +
		"Name: " + t.FullName + "\n" +
		"Business: " + t.BusinessName + "\n" +
		"District: " + orNotSet(t.DistrictName) + "\n" +
		"Sector: " + orNotSet(t.SectorName) + "\n" +
		"Phone: " + t.Phone + "\n" +
		"Momo: " + t.MomoNumber + "\n" +
		"Email: " + orNotSet(t.Email) + "\n" +
		"Category: " + t.Category + "\n" +
		"TIN: " + t.TIN + "\n\n" +
		"Dial " + ussdCode + " for more options"
}

func registeredText(t *domain.Trader) string {
	return "Registration Successful!\n" +
		"Welcome to SmartTax Rwanda!\n\n" +
		"Name: " + t.FullName + "\n" +
		"Category: " + t.Category + "\n" +
		"District: " + orNotSet(t.DistrictName) + "\n" +
		"Sector: " + orNotSet(t.SectorName) + "\n" +
		"Phone: " + t.Phone + "\n" +
		"Momo: " + t.MomoNumber + "\n" +
		"TIN: " + t.TIN + "\n\n" +
		"You can now:\n" +
		"- Pay taxes via USSD\n" +
		"- View your transactions"
}

func loginText(t *domain.Trader, ussdCode string) string {
	return "Login Successful!\n" +
		"Welcome back, " + t.FullName + "!\n\n" +
		"Dial " + ussdCode + " to access your account."
}

func receiptText(tx *domain.Transaction, ratePercent string) string {
	return "Tax Payment Successful!\n\n" +
		"Product: " + tx.ProductName + "\n" +
		"Product Price: " + Money(tx.ProductPrice) + "\n" +
		"VAT Tax (" + ratePercent + "%): " + Money(tx.TaxAmount) + "\n" +
		"Your Earnings: " + Money(tx.TraderAmount) + "\n\n" +
		"Breakdown:\n" +
		"- You receive: " + Money(tx.TraderAmount) + "\n" +
		"- Tax paid: " + Money(tx.TaxAmount) + "\n" +
		"- Total: " + Money(tx.ProductPrice) + "\n\n" +
		"Ref: " + tx.Reference
}
