package application

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
)

const (
	signalStart      = "start"
	signalAbout      = "about"
	signalContact    = "contact"
	signalDonate     = "donate"
	signalClear      = "clear"
	signalUsersCount = "users_count"
	signalStats      = "stats"
)

type Links struct {
	Donation string
	Contact  string
}

type Messages struct {
	Locale domain.Locale

	ChoosePurpose     string
	AskBudget         string
	ChoosePurposeNext string
	InvalidBudget     string
	NoMatches         string
	ResultsHeader     string
	ReportCaption     string
	ReportFailed      string
	GenericFailure    string
	About             string
	Contact           string
	Donate            string
	Cleared           string
	UnknownCommand    string
	OperatorOnly      string
	UsersCount        string
	StatsCaption      string
	StatsMissing      string

	ButtonRestart string
	ButtonDonate  string
	ButtonAbout   string
	ButtonContact string
	ButtonClear   string

	CardBrand     string
	CardModel     string
	CardPrice     string
	CardSpecs     string
	CardProcessor string
	CardGPU       string
	CardRAM       string
	CardStorage   string
	CardDisplay   string
	CardBattery   string
	Currency      string
	Hours         string

	Commands []ports.Command
}

func MessagesFor(locale domain.Locale, links Links) Messages {
	if locale == domain.LocaleEnglish {
		return englishMessages(links)
	}
	return arabicMessages(links)
}

func arabicMessages(links Links) Messages {
	return Messages{
		Locale:            domain.LocaleArabic,
		ChoosePurpose:     "👇 حدد غرض استخدامك من اللابتوب:",
		AskBudget:         "💰 كم ميزانيتك؟ (بالريال السعودي)",
		ChoosePurposeNext: "❗ اختر الغرض أولًا عبر الضغط على (ابدأ من جديد).",
		InvalidBudget:     "❌ أدخل رقمًا صحيحًا.",
		NoMatches:         "لم نجد لابتوبات بهذه المواصفات. جرّب ميزانية أخرى أو غرضًا مختلفًا.",
		ResultsHeader:     "✅ وجدنا %d لابتوب مناسب، وهذه أفضل %d:",
		ReportCaption:     "📄 مقارنة المواصفات بين أفضل اللابتوبات",
		ReportFailed:      "⚠️ تعذر إنشاء ملف المقارنة، حاول مرة أخرى لاحقًا.",
		GenericFailure:    "⚠️ حدث خطأ غير متوقع، حاول مرة أخرى.",
		About: "💡 توبلاب هو مساعد ذكي يساعدك تختار أفضل لابتوب يناسب ميزانيتك واستخدامك، سواء كنت طالب، مصمم، مبرمج أو لاعب.\n\n" +
			"🚀 الترشيحات مبنية على تحليل بيانات محدثة من مواقع تقنية موثوقة، نتائج اختبارات الأداء (Benchmark)، تقييمات المستخدمين، وخبرة تقنية.\n\n" +
			"🎯 هدف توبلاب إنك توصل لأفضل خيار بدون ما تضيع وقتك في المقارنات ويوفر مالك بالاختيار المناسب لك.\n\n" +
			"✅ كل لابتوب يتم اختياره بناءً على جودة المواصفات، الأداء مقابل السعر، وتقييم المنتج بشكل عام.\n\n" +
			"💰 الأسعار المعروضة هي تقريبا متوسط السعر بسبب اختلاف الأسعار بين المتاجر، ويتم تحديث متوسط السعر أسبوعيًا.",
		Contact:        "📬 تواصل معي:\n" + links.Contact,
		Donate:         "❤️ لدعم المشروع:\n" + links.Donation,
		Cleared:        "🧹 تم مسح رسائل المحادثة.",
		UnknownCommand: "🤔 أمر غير معروف. اضغط (ابدأ من جديد) للبدء.",
		OperatorOnly:   "❌ هذا الأمر مخصص للمطور فقط.",
		UsersCount:     "📊 عدد المستخدمين المسجلين: %d",
		StatsCaption:   "📊 إحصائيات البوت",
		StatsMissing:   "📊 لا توجد إحصائيات محفوظة بعد.",

		ButtonRestart: "🔁 ابدأ من جديد",
		ButtonDonate:  "💵 دعم المشروع",
		ButtonAbout:   "💡 عن توبلاب",
		ButtonContact: "❤️ تواصل معي",
		ButtonClear:   "🧹 مسح المحادثة",

		CardBrand:     "🏷️ <b>الشركة:</b>",
		CardModel:     "💻 <b>الموديل:</b>",
		CardPrice:     "💰 <b>السعر:</b>",
		CardSpecs:     "🔧 <b>المواصفات:</b>",
		CardProcessor: "🧠 <b>المعالج:</b>",
		CardGPU:       "🎮 <b>كرت الشاشة:</b>",
		CardRAM:       "💾 <b>الرام:</b>",
		CardStorage:   "🗃️ <b>التخزين:</b>",
		CardDisplay:   "📺 <b>الشاشة:</b>",
		CardBattery:   "🔋 <b>البطارية:</b>",
		Currency:      "ر.س",
		Hours:         "ساعة",

		Commands: []ports.Command{
			{Name: signalStart, Description: "بدء البوت"},
			{Name: signalAbout, Description: "عن التطبيق"},
			{Name: signalContact, Description: "تواصل معي"},
			{Name: signalDonate, Description: "دعم المشروع"},
			{Name: signalClear, Description: "مسح رسائل المحادثة"},
			{Name: signalUsersCount, Description: "عدد المستخدمين (خاص بالمطور)"},
		},
	}
}

func englishMessages(links Links) Messages {
	return Messages{
		Locale:            domain.LocaleEnglish,
		ChoosePurpose:     "👇 What will you mainly use the laptop for?",
		AskBudget:         "💰 What is your budget? (SAR)",
		ChoosePurposeNext: "❗ Pick a purpose first by tapping (Start over).",
		InvalidBudget:     "❌ Please enter a whole number.",
		NoMatches:         "No laptops match that budget. Try another budget or purpose.",
		ResultsHeader:     "✅ Found %d matching laptops, here are the top %d:",
		ReportCaption:     "📄 Spec comparison of the top laptops",
		ReportFailed:      "⚠️ The comparison document could not be generated, please try again later.",
		GenericFailure:    "⚠️ Something went wrong, please try again.",
		About: "💡 TopLap helps you pick the best laptop for your budget and use, whether you are a student, designer, developer or gamer.\n\n" +
			"🚀 Recommendations combine up-to-date specs from trusted tech sites, benchmark results, user ratings and hands-on experience.\n\n" +
			"✅ Every laptop is scored on spec quality, price to performance and overall reviews.\n\n" +
			"💰 Prices are weekly averages across stores and may differ slightly from a given shop.",
		Contact:        "📬 Contact me:\n" + links.Contact,
		Donate:         "❤️ Support the project:\n" + links.Donation,
		Cleared:        "🧹 Chat messages cleared.",
		UnknownCommand: "🤔 Unknown command. Tap (Start over) to begin.",
		OperatorOnly:   "❌ This command is reserved for the developer.",
		UsersCount:     "📊 Registered users: %d",
		StatsCaption:   "📊 Bot statistics",
		StatsMissing:   "📊 No statistics have been saved yet.",

		ButtonRestart: "🔁 Start over",
		ButtonDonate:  "💵 Support the project",
		ButtonAbout:   "💡 About TopLap",
		ButtonContact: "❤️ Contact me",
		ButtonClear:   "🧹 Clear chat",

		CardBrand:     "🏷️ <b>Brand:</b>",
		CardModel:     "💻 <b>Model:</b>",
		CardPrice:     "💰 <b>Price:</b>",
		CardSpecs:     "🔧 <b>Specs:</b>",
		CardProcessor: "🧠 <b>CPU:</b>",
		CardGPU:       "🎮 <b>GPU:</b>",
		CardRAM:       "💾 <b>RAM:</b>",
		CardStorage:   "🗃️ <b>Storage:</b>",
		CardDisplay:   "📺 <b>Display:</b>",
		CardBattery:   "🔋 <b>Battery:</b>",
		Currency:      "SAR",
		Hours:         "h",

		Commands: []ports.Command{
			{Name: signalStart, Description: "Start the bot"},
			{Name: signalAbout, Description: "About the app"},
			{Name: signalContact, Description: "Contact me"},
			{Name: signalDonate, Description: "Support the project"},
			{Name: signalClear, Description: "Clear chat messages"},
			{Name: signalUsersCount, Description: "Registered users (developer only)"},
		},
	}
}

func (m Messages) MainKeyboard() domain.Keyboard {
	return domain.Keyboard{
		{{Label: m.ButtonRestart, Data: signalStart}},
		{{Label: m.ButtonDonate, Data: signalDonate}},
		{{Label: m.ButtonAbout, Data: signalAbout}},
		{{Label: m.ButtonContact, Data: signalContact}},
		{{Label: m.ButtonClear, Data: signalClear}},
	}
}

func (m Messages) PurposeKeyboard() domain.Keyboard {
	purposes := domain.Purposes()
	keyboard := make(domain.Keyboard, 0, len(purposes))
	for _, purpose := range purposes {
		keyboard = append(keyboard, []domain.Button{{Label: purpose.Label(m.Locale), Data: purpose.CallbackData()}})
	}
	return keyboard
}

// Card renders one catalog entry as Telegram HTML.
func (m Messages) Card(entry domain.CatalogEntry) string {
	lines := []string{
		fmt.Sprintf("%s %s", m.CardBrand, html.EscapeString(entry.Brand)),
		fmt.Sprintf("%s <code>%s</code>", m.CardModel, html.EscapeString(entry.Model)),
		"",
		fmt.Sprintf("%s %s %s", m.CardPrice, FormatPrice(entry.Price), m.Currency),
		"",
		m.CardSpecs,
		fmt.Sprintf("%s %s", m.CardProcessor, html.EscapeString(entry.Processor)),
		fmt.Sprintf("%s %s", m.CardGPU, html.EscapeString(entry.GPU)),
		fmt.Sprintf("%s %s", m.CardRAM, html.EscapeString(entry.RAM)),
		fmt.Sprintf("%s %s", m.CardStorage, html.EscapeString(entry.Storage)),
		fmt.Sprintf("%s %s", m.CardDisplay, html.EscapeString(entry.Display)),
		fmt.Sprintf("%s %s %s", m.CardBattery, html.EscapeString(entry.BatteryLife), m.Hours),
	}
	return strings.Join(lines, "\n")
}

// FormatPrice truncates to whole units and groups thousands with commas.
func FormatPrice(price float64) string {
	digits := strconv.FormatInt(int64(price), 10)
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
