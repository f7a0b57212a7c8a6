package config

// Built-in domain tables for the Midland Bank knowledge base. They mirror
// the curated keyword lists used to index the bank's public site and can be
// overridden wholesale from YAML.

// DefaultTables returns the built-in domain tables.
func DefaultTables() Tables {
	return Tables{
		Categories:      defaultCategories(),
		ProductAliases:  defaultProductAliases(),
		RoleAliases:     defaultRoleAliases(),
		BonusKeywords:   defaultBonusKeywords(),
		Personnel:       defaultPersonnel(),
		Greetings:       defaultGreetings(),
		BankKeywords:    defaultBankKeywords(),
		ProductQueries:  defaultProductQueries(),
		CategoryMap:     defaultCategoryMap(),
		ManagementRoles: defaultManagementRoles(),
		GenericTerms:    []string{"savings", "account", "deposit", "scheme"},
		SystemPrompt:    defaultSystemPrompt,
	}
}

func defaultCategories() []Category {
	return []Category{
		{
			Name:      "management",
			Keywords:  []string{"chairman", "managing director", "ceo", "management", "head", "chief", "executive", "cto", "md", "dmd", "senior executive"},
			Weight:    1.5,
			Exclusive: true,
		},
		{
			Name:      "board",
			Keywords:  []string{"board of directors", "board member", "director", "vice chairman", "independent director"},
			Weight:    1.5,
			Exclusive: true,
		},
		{
			Name:      "sponsor",
			Keywords:  []string{"sponsor", "sponsors", "founder", "founding member", "sponsor director", "sponsor share holder"},
			Weight:    1.5,
			Exclusive: true,
		},
		{
			Name:      "location",
			Keywords:  []string{"head office", "branch", "location", "address", "tower", "gulshan", "dhaka", "contact", "email", "phone", "fax", "n.b", "address of", "where is", "what is the address of"},
			Weight:    1.5,
			Exclusive: true,
		},
		{
			Name:     "general_banking",
			Keywords: []string{"account", "banking", "service", "facility", "scheme", "transaction", "branch"},
			Weight:   1.2,
		},
		{
			Name:     "loans",
			Keywords: []string{"loan", "credit", "mortgage", "financing", "interest rate", "tenure", "emi"},
			Weight:   1.2,
		},
		{
			Name:     "cards",
			Keywords: []string{"card", "credit card", "debit card", "prepaid", "visa", "mastercard"},
			Weight:   1.2,
		},
		{
			Name:      "islamic",
			Keywords:  []string{"islamic", "saalam", "shariah", "mudaraba", "murabaha", "halal", "islami"},
			Weight:    1.5,
			Exclusive: true,
		},
		{
			Name: "savings",
			Keywords: []string{"savings", "deposit", "dps", "super saver", "school saver", "college saver", "cpp savings",
				"gift cheque", "kotipoti", "millionaire", "platinum savings", "traveller's savings",
				"e-saver", "interest first", "personal retail account", "sathi", "super high performance",
				"digital savings", "family support", "double benefit"},
			Weight:       1.5,
			Exclusive:    true,
			ExcludeTerms: []string{"islamic", "shariah", "mudaraba"},
		},
		{
			Name:     "digital",
			Keywords: []string{"digital", "online", "internet banking", "mobile banking", "app", "electronic"},
			Weight:   1.2,
		},
		{
			Name:     "features",
			Keywords: []string{"feature", "benefit", "eligibility", "requirement", "document", "criteria"},
			Weight:   1.1,
		},
		{
			Name:     "corporate",
			Keywords: []string{"corporate", "business", "enterprise", "company", "commercial", "merchant"},
			Weight:   1.2,
		},
	}
}

func defaultProductAliases() map[string]string {
	return map[string]string{
		"kotipoti":                "MDB Kotipoti",
		"mdb kotipoti":            "MDB Kotipoti",
		"millionaire":             "MDB Millionaire",
		"mdb millionaire":         "MDB Millionaire",
		"double benefit":          "MDB Double Benefit",
		"double benefit plus":     "MDB Double Benefit Plus",
		"super saver":             "MDB Super Saver",
		"school saver":            "MDB School Saver",
		"college saver":           "MDB College Saver",
		"platinum savings":        "MDB Platinum Savings Account",
		"traveller's savings":     "MDB Traveller's Savings Account",
		"e-saver":                 "MDB e-Saver",
		"interest first":          "MDB Interest First Fixed Deposit",
		"personal retail account": "MDB Personal Retail Account",
		"sathi":                   "MDB Sathi",
		"saalam sathi":            "MDB Saalam Sathi",
		"super high performance":  "MDB Super High Performance Account",
		"digital savings":         "MDB Digital Savings Account",
		"family support":          "MDB Family Support",
		"cpp savings":             "MDB CPP Savings",
		"gift cheque":             "MDB Gift Cheque",
		"dps":                     "MDB Deposit Pension Scheme",
		"probashi savings":        "MDB Probashi Savings",
		"amar bari":               "MDB Amar Bari",
		"nirman":                  "MDB Nirman",
		"orjon":                   "MDB Orjon",
		"ogroj":                   "MDB Ogroj",
		"diptimoyi":               "MDB Diptimoyi",
		"nirbhorota":              "MDB Nirbhorota",
		"praromvik":               "MDB Praromvik",
		"krishi loan":             "MDB Krishi Loan",
		"it uddog":                "MDB IT Uddog",
		"nari uddog":              "MDB Nari Uddog",
		"start-up":                "MDB Start-up",
		"green loan":              "MDB Green Loan",
		"jhotpot":                 "MDB Jhotpot Loan",
		"achallan":                "MDB AChallan",
		"midland online":          "Midland Online",
		"midland app":             "Midland Bank App",
		"midland bank app":        "Midland Bank App",
		"agent banking":           "MDB Agent Banking",
		"secure locker service":   "MDB Secure Locker Service",
	}
}

func defaultRoleAliases() map[string]string {
	return map[string]string{
		"chief technology officer": "cto",
		"deputy managing director": "dmd",
		"chief risk officer":       "cro",
		"chief executive officer":  "ceo",
		"managing director":        "md",
		"vice chairman":            "vc",
	}
}

func defaultBonusKeywords() map[string]float64 {
	return map[string]float64{
		"managing director":        0.8,
		"deputy managing director": 0.8,
		"dmd":                      0.8,
		"chief risk officer":       0.5,
		"chief technology officer": 0.5,
		"ahsan-uz zaman":           0.8,
		"zahid hossain":            0.8,
		"ceo":                      0.8,
		"md":                       0.8,
		"md. nazmul huda sarkar":   0.8,
		"cto":                      0.8,
		"chairman":                 1.0,
		"ahsan khan chowdhury":     1.0,
		"vice chairman":            0.8,
		"vc":                       0.8,
		"md. shamsuzzaman":         0.8,
	}
}

func defaultPersonnel() map[string][]string {
	return map[string][]string{
		"ahsan khan chowdhury":   {"chairman", "chairman of the bank"},
		"md. ahsan-uz zaman":     {"managing director", "md", "ceo"},
		"md. nazmul huda sarkar": {"chief technology officer", "cto", "senior executive vice president & cto", "head of information technology division"},
		"md. zahid hossain":      {"deputy managing director", "dmd", "chief risk officer"},
		"md. shamsuzzaman":       {"vice chairman", "vc", "vice chairman of the bank"},
	}
}

func defaultGreetings() map[string]string {
	return map[string]string{
		"hi":             "Hello! How can I assist you with Midland Bank today?",
		"hello":          "Hello! How can I assist you with Midland Bank today?",
		"hey":            "Hey there! What banking information do you need?",
		"thank you":      "You're welcome! Let me know if you need further assistance.",
		"thanks":         "You're welcome! Let me know if you need further assistance.",
		"bye":            "Bye! Have a great day!",
		"goodbye":        "Goodbye! Feel free to ask me anytime about Midland Bank.",
		"good morning":   "Good morning! How can I help you with Midland Bank?",
		"good afternoon": "Good afternoon! What banking services would you like to know about?",
		"good evening":   "Good evening! Do you have any banking-related inquiries?",
		"okay":           "Do you need any further assistance?",
		"ok":             "Do you need any further assistance?",
		"how are you":    "I'm here and ready to help with any Midland Bank questions you have.",
	}
}

func defaultBankKeywords() []string {
	return []string{
		"midland bank", "loan", "interest rate", "credit card", "accounts",
		"green banking", "products", "financial statements", "online banking",
		"deposits", "atm", "services", "mortgage", "insurance", "transaction",
		"credit score", "investment", "customer support", "mdb", "savings",
		"women", "debit card", "islamic", "branch", "location", "contact",
		"schedule", "working hours", "mobile banking", "internet banking",
		"corporate", "sme", "retail", "agent banking", "bank", "family support",
		"midland online", "midland app", "midland bank app", "midland online banking",
		"midland mobile banking", "jhotpot", "achallan", "amar bari",
		"secure locker service", "card", "credit", "debit", "prepaid", "visa", "mastercard",
		"sathi", "super high performance", "digital savings", "double benefit", "kotipoti", "millionaire",
		"platinum savings", "traveller's savings", "e-saver", "interest first", "personal retail account",
		"gift cheque", "cpp savings", "school saver", "college saver", "super saver", "savings account",
		"dps", "deposit", "mudaraba", "murabaha", "halal", "saalam", "shariah",
		"chairman", "managing director", "ceo", "board", "director", "management", "head",
		"chief", "executive", "leadership", "cto", "md", "bills collection", "dmd", "senior executive",
		"vice chairman", "board of directors", "board members", "foreign exchange", "foreign currency",
		"money market", "fixed income investment", "corporate sales", "treasury", "alm desk", "exchange rate",
		"policy", "regulation", "compliance", "risk management", "audit", "internal control",
		"financial statements", "annual report", "financial report", "quarterly report",
		"investor contact", "nrb", "bancassurance", "sponsors", "eligibility", "requirements",
		"documents", "criteria", "features", "benefits", "minimum deposit", "amount", "tenure",
		"students", "university", "e-gp", "corporate banking", "business banking", "merchant services",
		"excise duty", "rtgs",
	}
}

func defaultProductQueries() []string {
	return []string{
		"list products", "all products", "product categories",
		"what products do you have", "show all products", "what are the products", "available products",
		"product list", "products offered", "product categories list", "product names", "list of products",
		"what products are available", "list of midland bank products", "midland bank products",
		"midland bank product list", "midland bank product categories", "what do you offer",
		"what do you provide", "what are your services", "services you offer", "what are your offerings",
		"show me what you offer", "show me your services", "services list", "your products", "your services",
		"list your products", "tell me about your products", "do you have any products",
		"offerings", "bank offerings",
	}
}

func defaultCategoryMap() map[string][]string {
	return map[string][]string{
		"savings":         {"savings", "saving accounts", "dps", "deposit", "deposit accounts", "deposit products"},
		"loans":           {"loan", "loans"},
		"cards":           {"card", "visa", "debit", "prepaid", "credit card"},
		"Islamic Loan":    {"islamic loan", "shariah-compliant loan", "halal loan", "saalam loan"},
		"Islamic Savings": {"islamic savings", "shariah savings", "halal savings", "mudaraba", "saalam savings"},
		"Islamic Current": {"islamic current", "shariah current account", "halal current", "saalam current"},
		"islamic":         {"islamic", "shariah", "saalam"},
		"women banking":   {"sathi", "nari uddog", "saalam sathi"},
	}
}

func defaultManagementRoles() []string {
	return []string{
		"managing director", "ceo", "chairman", "cto", "chief technology officer",
		"chief risk officer", "deputy managing director", "md", "dmd", "vice chairman", "vc",
		"board of directors", "board member", "board members", "senior executive vice president",
		"head of information technology division",
	}
}

const defaultSystemPrompt = `You're the Midland Bank AI Advisor — here to help customers with friendly, clear, and helpful answers.

Speak like a trusted banking partner: approachable, concise, and supportive.

Stick only to information provided by Midland Bank. If something isn't in the data, be honest about it — don't guess or make things up.

Here's how to respond:
1. Use only what's in the bank's data. If something's not covered, say it simply — e.g., "I don't have details on that right now." Only say this if you truly can't help.
2. Don't assume or infer details — stick to what's clearly stated.
3. Keep it natural — skip phrases like "According to the document" or "Based on the context."
4. Use bullet points for listing features, benefits, or steps — it makes things easier to read.
5. Only mention roles like CEO or Chairman if they're clearly included in the data.
6. Invite follow-up questions — make the user feel welcome to ask more.
7. If the user follows up with 'yes' or 'ok', assume they're referring to the last discussed topic.`
