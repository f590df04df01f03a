// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package language

// languageNames is the static table of ISO 639-3 code to human-readable
// name, covering the classifier's closed label set. Shipped as static
// configuration, never derived at runtime.
var languageNames = map[string]string{
	"afr": "Afrikaans",
	"aka": "Akan",
	"amh": "Amharic",
	"arb": "Arabic",
	"azj": "Azerbaijani",
	"bel": "Belarusian",
	"ben": "Bengali",
	"bho": "Bhojpuri",
	"bul": "Bulgarian",
	"cat": "Catalan",
	"ceb": "Cebuano",
	"ces": "Czech",
	"cmn": "Mandarin Chinese",
	"dan": "Danish",
	"deu": "German",
	"ell": "Greek",
	"eng": "English",
	"epo": "Esperanto",
	"est": "Estonian",
	"fin": "Finnish",
	"fra": "French",
	"guj": "Gujarati",
	"hat": "Haitian Creole",
	"hau": "Hausa",
	"heb": "Hebrew",
	"hin": "Hindi",
	"hrv": "Croatian",
	"hun": "Hungarian",
	"hye": "Armenian",
	"ibo": "Igbo",
	"ilo": "Ilocano",
	"ind": "Indonesian",
	"ita": "Italian",
	"jav": "Javanese",
	"jpn": "Japanese",
	"kan": "Kannada",
	"kat": "Georgian",
	"khm": "Khmer",
	"kin": "Kinyarwanda",
	"kor": "Korean",
	"kur": "Kurdish",
	"lat": "Latin",
	"lav": "Latvian",
	"lit": "Lithuanian",
	"mai": "Maithili",
	"mal": "Malayalam",
	"mar": "Marathi",
	"mkd": "Macedonian",
	"mlg": "Malagasy",
	"mya": "Burmese",
	"nep": "Nepali",
	"nld": "Dutch",
	"nob": "Norwegian Bokmål",
	"nya": "Chewa",
	"ori": "Oriya",
	"orm": "Oromo",
	"pan": "Punjabi",
	"pes": "Persian",
	"pol": "Polish",
	"por": "Portuguese",
	"ron": "Romanian",
	"run": "Rundi",
	"rus": "Russian",
	"sin": "Sinhalese",
	"skr": "Saraiki",
	"slk": "Slovak",
	"slv": "Slovenian",
	"sna": "Shona",
	"som": "Somali",
	"spa": "Spanish",
	"srp": "Serbian",
	"swe": "Swedish",
	"swh": "Swahili",
	"tam": "Tamil",
	"tel": "Telugu",
	"tgl": "Tagalog",
	"tha": "Thai",
	"tir": "Tigrinya",
	"tuk": "Turkmen",
	"tur": "Turkish",
	"uig": "Uyghur",
	"ukr": "Ukrainian",
	"urd": "Urdu",
	"uzb": "Uzbek",
	"vie": "Vietnamese",
	"ydd": "Yiddish",
	"yor": "Yoruba",
	"zul": "Zulu",
}
