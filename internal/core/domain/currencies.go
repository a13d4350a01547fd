package domain

// BaseCurrency is the currency every averaged rate is expressed against.
const BaseCurrency = "USD"

// TrackedCurrencies is the default symbol set requested from the rate source.
var TrackedCurrencies = []string{
	"DZD", // Algerian Dinar
	"XOF", // West African CFA Franc
	"BWP", // Botswana Pula
	"BIF", // Burundian Franc
	"CVE", // Cape Verdean Escudo
	"XAF", // Central African CFA Franc
	"KMF", // Comorian Franc
	"CDF", // Congolese Franc
	"DJF", // Djiboutian Franc
	"EGP", // Egyptian Pound
	"ERN", // Eritrean Nakfa
	"ETB", // Ethiopian Birr
	"GHS", // Ghanaian Cedi
	"GNF", // Guinean Franc
	"KES", // Kenyan Shilling
	"LYD", // Libyan Dinar
	"MGA", // Malagasy Ariary
	"MUR", // Mauritian Rupee
	"MAD", // Moroccan Dirham
	"MZN", // Mozambican Metical
	"NAD", // Namibian Dollar
	"NGN", // Nigerian Naira
	"RWF", // Rwandan Franc
	"SOS", // Somali Shilling
	"ZAR", // South African Rand
	"SDG", // Sudanese Pound
	"TZS", // Tanzanian Shilling
	"TND", // Tunisian Dinar
	"UGX", // Ugandan Shilling
	"ZWL", // Zimbabwean Dollar
}
