package models

import "testing"

func TestValidateBank(t *testing.T) {
	details := MethodDetails{Bank: &BankDetails{
		BankName:          "",
		AccountNumber:     "1",
		AccountHolderName: "A",
	}}

	errs := details.Validate(MethodTypeBank)
	if _, ok := errs["bankName"]; !ok {
		t.Errorf("Expected error keyed on bankName, got %v", errs)
	}

	details.Bank.BankName = "First Bank"
	if errs := details.Validate(MethodTypeBank); !errs.Empty() {
		t.Errorf("Expected fully-populated bank details to pass, got %v", errs)
	}
}

func TestValidateBank_WhitespaceOnly(t *testing.T) {
	details := MethodDetails{Bank: &BankDetails{
		BankName:          "   ",
		AccountNumber:     "0123456789",
		AccountHolderName: "Ada Obi",
	}}

	errs := details.Validate(MethodTypeBank)
	if _, ok := errs["bankName"]; !ok {
		t.Errorf("Expected whitespace-only bank name to be rejected, got %v", errs)
	}
}

func TestValidateBank_OptionalFields(t *testing.T) {
	details := MethodDetails{Bank: &BankDetails{
		BankName:          "First Bank",
		AccountNumber:     "0123456789",
		AccountHolderName: "Ada Obi",
		SwiftCode:         "FBNINGLA",
		RoutingNumber:     "110000000",
	}}

	if errs := details.Validate(MethodTypeBank); !errs.Empty() {
		t.Errorf("Expected optional bank fields to be accepted, got %v", errs)
	}
}

func TestValidateCrypto(t *testing.T) {
	details := MethodDetails{Crypto: &CryptoDetails{
		WalletAddress: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		CryptoNetwork: "mainnet",
	}}

	if errs := details.Validate(MethodTypeCrypto); !errs.Empty() {
		t.Errorf("Expected valid crypto details to pass, got %v", errs)
	}

	details.Crypto.WalletAddress = ""
	errs := details.Validate(MethodTypeCrypto)
	if _, ok := errs["walletAddress"]; !ok {
		t.Errorf("Expected error keyed on walletAddress, got %v", errs)
	}
}

func TestCryptoTypeDefaultsToBTC(t *testing.T) {
	details := MethodDetails{Crypto: &CryptoDetails{
		WalletAddress: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		CryptoNetwork: "mainnet",
	}}

	details.Normalize(MethodTypeCrypto)
	if details.Crypto.CryptoType != "BTC" {
		t.Errorf("Expected crypto type to default to BTC, got %q", details.Crypto.CryptoType)
	}

	details.Crypto.CryptoType = "ETH"
	details.Normalize(MethodTypeCrypto)
	if details.Crypto.CryptoType != "ETH" {
		t.Errorf("Expected explicit crypto type to survive, got %q", details.Crypto.CryptoType)
	}
}

func TestValidatePaypal_BusinessName(t *testing.T) {
	details := MethodDetails{Paypal: &PaypalDetails{
		PaypalEmail:  "a@b.com",
		AccountType:  "business",
		BusinessName: "",
	}}

	errs := details.Validate(MethodTypePaypal)
	if _, ok := errs["businessName"]; !ok {
		t.Errorf("Expected error keyed on businessName, got %v", errs)
	}

	details.Paypal.AccountType = "personal"
	if errs := details.Validate(MethodTypePaypal); !errs.Empty() {
		t.Errorf("Expected personal account with empty business name to pass, got %v", errs)
	}
}

func TestValidatePaypal_Email(t *testing.T) {
	details := MethodDetails{Paypal: &PaypalDetails{PaypalEmail: "not-an-email"}}

	errs := details.Validate(MethodTypePaypal)
	if _, ok := errs["paypalEmail"]; !ok {
		t.Errorf("Expected error keyed on paypalEmail, got %v", errs)
	}

	details.Paypal.PaypalEmail = ""
	errs = details.Validate(MethodTypePaypal)
	if _, ok := errs["paypalEmail"]; !ok {
		t.Errorf("Expected empty email to be rejected, got %v", errs)
	}
}

func TestValidateStripe(t *testing.T) {
	details := MethodDetails{Stripe: &StripeDetails{StripeAccountID: "acct_1ABC"}}

	if errs := details.Validate(MethodTypeStripe); !errs.Empty() {
		t.Errorf("Expected minimal stripe details to pass, got %v", errs)
	}

	details.Stripe.Country = "USA"
	errs := details.Validate(MethodTypeStripe)
	if _, ok := errs["country"]; !ok {
		t.Errorf("Expected 3-letter country code to be rejected, got %v", errs)
	}

	details.Stripe.Country = "US"
	if errs := details.Validate(MethodTypeStripe); !errs.Empty() {
		t.Errorf("Expected 2-letter country code to pass, got %v", errs)
	}
}

func TestValidateOther(t *testing.T) {
	details := MethodDetails{Other: &OtherDetails{OtherDetails: ""}}

	errs := details.Validate(MethodTypeOther)
	if _, ok := errs["otherDetails"]; !ok {
		t.Errorf("Expected error keyed on otherDetails, got %v", errs)
	}

	details.Other.OtherDetails = "Send via Western Union to Ada Obi, Lagos"
	if errs := details.Validate(MethodTypeOther); !errs.Empty() {
		t.Errorf("Expected populated other details to pass, got %v", errs)
	}
}

func TestValidate_MissingDetailsForType(t *testing.T) {
	details := MethodDetails{}

	for _, methodType := range []MethodType{MethodTypeBank, MethodTypeCrypto, MethodTypePaypal, MethodTypeStripe, MethodTypeOther} {
		if errs := details.Validate(methodType); errs.Empty() {
			t.Errorf("Expected empty details to fail for type %s", methodType)
		}
	}
}

func TestValidate_UnknownType(t *testing.T) {
	details := MethodDetails{}

	errs := details.Validate(MethodType("venmo"))
	if _, ok := errs["type"]; !ok {
		t.Errorf("Expected error keyed on type, got %v", errs)
	}
}

func TestValidMethodType(t *testing.T) {
	for _, methodType := range []MethodType{MethodTypeBank, MethodTypeCrypto, MethodTypePaypal, MethodTypeStripe, MethodTypeOther} {
		if !ValidMethodType(methodType) {
			t.Errorf("Expected %s to be valid", methodType)
		}
	}

	if ValidMethodType(MethodType("venmo")) {
		t.Error("Expected venmo to be rejected")
	}
}
