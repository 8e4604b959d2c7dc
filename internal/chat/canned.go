package chat

import (
	"github.com/krishimitra/server/internal/lang"
)

// agriContexts is the system context sent with agriculture-domain queries.
var agriContexts = map[string]string{
	"en": `You are KrishiMitra, an AI assistant specializing in agriculture for Indian farmers.
Your goal is to provide practical farming advice, crop recommendations, and soil health insights.
Keep your responses concise, practical, and tailored to Indian agricultural conditions.
If you don't know something, admit it rather than making up information.
Focus on sustainable farming practices when possible.`,

	"hi": `आप कृषिमित्र हैं, भारतीय किसानों के लिए कृषि में विशेषज्ञता वाले एक AI सहायक हैं।
आपका लक्ष्य व्यावहारिक खेती सलाह, फसल अनुशंसाएँ और मिट्टी के स्वास्थ्य के बारे में जानकारी प्रदान करना है।
अपने जवाबों को संक्षिप्त, व्यावहारिक और भारतीय कृषि परिस्थितियों के अनुरूप रखें।
अगर आपको कुछ नहीं पता है, तो जानकारी बनाने के बजाय इसे स्वीकार करें।
जब संभव हो तो टिकाऊ खेती प्रथाओं पर ध्यान दें।`,

	"mr": `तुम्ही कृषिमित्र आहात, भारतीय शेतकऱ्यांसाठी शेतीमध्ये विशेषज्ञता असलेले एक AI सहाय्यक.
तुमचे उद्दिष्ट व्यावहारिक शेती सल्ला, पीक शिफारसी आणि मातीच्या आरोग्याबद्दल अंतर्दृष्टी प्रदान करणे आहे.
तुमची उत्तरे संक्षिप्त, व्यावहारिक आणि भारतीय शेती परिस्थितींनुसार ठेवा.
तुम्हाला काही माहित नसेल तर माहिती तयार करण्याऐवजी ते मान्य करा.
शक्य असेल तेव्हा शाश्वत शेती पद्धतींवर लक्ष केंद्रित करा.`,
}

// generalContexts is the system context for everything else.
var generalContexts = map[string]string{
	"en": `You are KrishiMitra AI, a versatile assistant that can help with both agricultural and general questions.
While you specialize in agriculture, you can also provide helpful information on a wide range of topics.
Be informative, accurate, and concise in your responses.
If you don't know something, admit it rather than making up information.
For non-agricultural questions, provide helpful responses while mentioning your agricultural expertise.`,

	"hi": `आप कृषिमित्र AI हैं, एक बहुमुखी सहायक जो कृषि और सामान्य प्रश्नों दोनों में मदद कर सकते हैं।
हालांकि आप कृषि में विशेषज्ञ हैं, आप विषयों की एक विस्तृत श्रृंखला पर भी उपयोगी जानकारी प्रदान कर सकते हैं।
अपने उत्तरों में जानकारीपूर्ण, सटीक और संक्षिप्त रहें।
अगर आपको कुछ नहीं पता है, तो जानकारी बनाने के बजाय इसे स्वीकार करें।
गैर-कृषि प्रश्नों के लिए, अपनी कृषि विशेषज्ञता का उल्लेख करते हुए उपयोगी उत्तर प्रदान करें।`,

	"mr": `तुम्ही कृषिमित्र AI आहात, एक बहुआयामी सहाय्यक जो शेती आणि सामान्य प्रश्न दोन्हींमध्ये मदत करू शकतो.
तुम्ही शेतीमध्ये विशेषज्ञ असताना, तुम्ही विषयांच्या विस्तृत श्रेणीवर देखील उपयुक्त माहिती प्रदान करू शकता.
तुमच्या प्रतिसादांमध्ये माहितीपूर्ण, अचूक आणि संक्षिप्त रहा.
तुम्हाला काही माहित नसेल तर माहिती तयार करण्याऐवजी ते मान्य करा.
अशेती प्रश्नांसाठी, तुमच्या शेती विशेषज्ञतेचा उल्लेख करून उपयुक्त प्रतिसाद द्या.`,
}

// greetings are matched across all languages regardless of the session
// language. The match is exact or "greeting + space" prefix only, so
// "hello!" is not a greeting.
var greetings = map[string][]string{
	"en": {"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening", "howdy", "what's up"},
	"hi": {"नमस्ते", "नमस्कार", "हैलो", "हाय", "सुप्रभात", "शुभ दोपहर", "शुभ संध्या", "प्रणाम"},
	"mr": {"नमस्कार", "नमस्ते", "हॅलो", "सुप्रभात", "शुभ दुपार", "शुभ संध्याकाळ"},
}

// greetingReplies is the canned greeting answer, selected by the session
// language, not by the language the greeting was written in.
var greetingReplies = map[string]string{
	"en": "Hello! I'm KrishiMitra, your agricultural assistant. How can I help you today with farming, crop recommendations, or any other questions?",
	"hi": "नमस्ते! मैं कृषिमित्र हूं, आपका कृषि सहायक। आज मैं खेती, फसल अनुशंसाओं, या किसी अन्य प्रश्न के साथ आपकी कैसे मदद कर सकता हूं?",
	"mr": "नमस्कार! मी कृषिमित्र आहे, तुमचा कृषी सहाय्यक. आज मी शेती, पीक शिफारसी, किंवा इतर कोणत्याही प्रश्नांसह तुमची कशी मदत करू शकतो?",
}

var errorMessages = map[string]string{
	"en": "I'm sorry, I couldn't process your request. Please try again later.",
	"hi": "मुझे खेद है, मैं आपके अनुरोध को संसाधित नहीं कर सका। कृपया बाद में पुनः प्रयास करें।",
	"mr": "मला माफ करा, मी तुमच्या विनंतीवर प्रक्रिया करू शकलो नाही. कृपया नंतर पुन्हा प्रयत्न करा.",
}

var weatherFallbacks = map[string]string{
	"en": "I can provide general weather information for farming. For accurate forecasts, please check a weather service. In general, monitor rainfall patterns, temperature changes, and seasonal variations to plan your farming activities accordingly.",
	"hi": "मैं खेती के लिए सामान्य मौसम जानकारी प्रदान कर सकता हूं। सटीक पूर्वानुमान के लिए, कृपया मौसम सेवा की जांच करें। सामान्य तौर पर, अपनी खेती गतिविधियों की योजना बनाने के लिए वर्षा पैटर्न, तापमान परिवर्तन और मौसमी बदलाव पर नजर रखें।",
	"mr": "मी शेतीसाठी सामान्य हवामान माहिती प्रदान करू शकतो. अचूक अंदाजासाठी, कृपया हवामान सेवा तपासा. सामान्यतः, तुमच्या शेती क्रियाकलापांचे नियोजन करण्यासाठी पावसाचे पॅटर्न, तापमानातील बदल आणि हंगामी बदलांवर लक्ष ठेवा.",
}

var soilFallbacks = map[string]string{
	"en": "Healthy soil is crucial for good crop yields. Regular soil testing is recommended to check nutrient levels (N, P, K), pH, and organic matter content. Based on test results, you can apply appropriate fertilizers and amendments to improve soil health.",
	"hi": "अच्छी फसल उपज के लिए स्वस्थ मिट्टी महत्वपूर्ण है। पोषक तत्वों (N, P, K), pH, और जैविक पदार्थ सामग्री की जांच के लिए नियमित मिट्टी परीक्षण की सिफारिश की जाती है। परीक्षण परिणामों के आधार पर, आप मिट्टी के स्वास्थ्य को सुधारने के लिए उपयुक्त उर्वरक और संशोधन लागू कर सकते हैं।",
	"mr": "चांगल्या पीक उत्पादनासाठी निरोगी माती महत्त्वाची आहे. पोषक पातळी (N, P, K), pH आणि सेंद्रिय पदार्थांची सामग्री तपासण्यासाठी नियमित माती चाचणीची शिफारस केली जाते. चाचणीच्या निकालांच्या आधारे, तुम्ही मातीचे आरोग्य सुधारण्यासाठी योग्य खते आणि दुरुस्ती लावू शकता.",
}

var cropFallbacks = map[string]string{
	"en": "For successful crop cultivation, consider factors like soil type, climate, water availability, and market demand. Proper seed selection, timely planting, regular monitoring for pests and diseases, and appropriate fertilization are key practices for good yields.",
	"hi": "सफल फसल खेती के लिए, मिट्टी के प्रकार, जलवायु, पानी की उपलब्धता और बाजार मांग जैसे कारकों पर विचार करें। उचित बीज चयन, समय पर रोपण, कीटों और बीमारियों के लिए नियमित निगरानी, और उपयुक्त उर्वरकता अच्छी उपज के लिए प्रमुख प्रथाएं हैं।",
	"mr": "यशस्वी पीक लागवडीसाठी, मातीचा प्रकार, हवामान, पाण्याची उपलब्धता आणि बाजारपेठेची मागणी यासारख्या घटकांचा विचार करा. योग्य बियाणे निवड, वेळेवर लागवड, कीटक आणि रोगांसाठी नियमित देखरेख आणि योग्य खतांचा वापर हे चांगल्या उत्पादनासाठी महत्त्वाचे आहेत.",
}

func localized(table map[string]string, language string) string {
	if t, ok := table[language]; ok {
		return t
	}
	return table[lang.Default]
}
