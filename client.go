package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mdbplc/advisor/cache"
	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/conversation"
	"github.com/mdbplc/advisor/embedding"
	"github.com/mdbplc/advisor/llm"
	"github.com/mdbplc/advisor/metrics"
	"github.com/mdbplc/advisor/products"
	"github.com/mdbplc/advisor/query"
	"github.com/mdbplc/advisor/rank"
	"github.com/mdbplc/advisor/retrieval"
	"github.com/mdbplc/advisor/retriever"
	"github.com/mdbplc/advisor/schema"
	"github.com/mdbplc/advisor/vectordb"
)

// User-facing fixed strings. Every failure is absorbed here and turned
// into one of these.
const (
	msgEmptyInput      = "Please enter a question about Midland Bank."
	msgBackendError = "Error accessing the knowledge base."
	// msgNoResults answers product enumeration that finds nothing;
	// msgNothingRelevant answers the default path when retrieval shapes
	// the context down to empty.
	msgNoResults       = "No relevant information found in the bank's knowledge base."
	msgNothingRelevant = "Sorry, I couldn’t find anything relevant for that. Could you please rephrase?"
	msgGenerationError = "Sorry, I’m having trouble right now."
	msgOffTopic        = "I can only provide information about Midland Bank. Please ask a bank-related question."
	msgUnknownTopic    = "Could not determine the topic. Please clarify your question."
)

// chargePhrases narrows retrieved context to fee and tariff sentences
// when the question is about charges.
var chargePhrases = []string{"fee", "fees", "charge", "charges", "vat", "excise", "tariff"}

// Client wires the whole pipeline together and exposes the single
// HandleMessage entrypoint used by both transports.
type Client struct {
	cfg          *config.Config
	tables       *config.Tables
	normalizer   *query.Normalizer
	classifier   *query.Classifier
	manager      *conversation.Manager
	orchestrator *retrieval.Orchestrator
	generator    llm.Provider
	lister       *products.Lister
	sessions     SessionStore
	store        vectordb.VectorStoreProvider
}

func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	tables := &cfg.Tables

	embedder, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	store, err := vectordb.NewProvider(ctx, &cfg.VectorDB)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	generator, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sessions, err := NewSessionStore(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	responseTTL := time.Duration(cfg.Cache.ResponseTTLSeconds) * time.Second
	contextCache := cache.New(cfg.Cache.Provider, cfg.Cache.Capacity, responseTTL)
	responseCache := cache.New(cfg.Cache.Provider, cfg.Cache.Capacity, responseTTL)
	generator = llm.WithCache(generator, responseCache, responseTTL)

	classifier := query.NewClassifier(tables)
	vr := &retriever.VectorRetriever{Embed: embedder, Store: store, TopK: cfg.Retrieval.TopK}
	orchestrator := retrieval.NewOrchestrator(vr, classifier, rank.NewScorer(tables), contextCache, tables, cfg.Retrieval)

	return &Client{
		cfg:          cfg,
		tables:       tables,
		normalizer:   query.NewNormalizer(tables),
		classifier:   classifier,
		manager:      conversation.NewManager(tables, classifier),
		orchestrator: orchestrator,
		generator:    generator,
		lister:       products.NewLister(store),
		sessions:     sessions,
		store:        store,
	}, nil
}

func (c *Client) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// Sessions exposes the session store for transports that mint ids.
func (c *Client) Sessions() SessionStore { return c.sessions }

// Retrieve exposes the shaped knowledge-base context for a query. topK <= 0
// uses the configured default.
func (c *Client) Retrieve(ctx context.Context, q string, topK int) (string, error) {
	return c.orchestrator.RetrieveTopN(ctx, c.normalizer.Normalize(q), topK)
}

// session loads or creates state for id. A blank id gets a fresh uuid.
func (c *Client) session(id string) *SessionData {
	if id != "" {
		if sess, ok := c.sessions.Get(id); ok {
			return sess
		}
	}
	sess := newSessionData()
	if id != "" {
		sess.ID = id
	}
	return sess
}

// HandleMessage resolves one user turn to a reply. It never returns an
// error: every failure maps to a fixed user-facing string.
func (c *Client) HandleMessage(ctx context.Context, sessionID, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return msgEmptyInput
	}

	sess := c.session(sessionID)

	// Slot value first: while awaiting a location, the next message is the
	// location whatever it says.
	if sess.State == conversation.StateAwaitingLocation {
		return c.handleLocationSlot(ctx, sess, message)
	}

	if sess.State != conversation.StateLocationReceived && c.manager.WantsLocation(message) {
		sess.State = conversation.StateAwaitingLocation
		metrics.CountState(string(sess.State))
		c.save(sess)
		return conversation.LocationPrompt
	}

	lastBot := conversation.LastAssistantMessage(sess.History)
	if reframed, ok := conversation.Reframe(ctx, c.generator, message, sess.LastTopic, lastBot); ok {
		if reframed == conversation.ClosingRemark {
			return reframed
		}
		logger.Debugf("advisor: reframed %q to %q", message, reframed)
		message = reframed
	}

	message = c.normalizer.Normalize(message)
	lower := strings.ToLower(message)

	if reply, ok := c.manager.GreetingReply(message); ok {
		return reply
	}

	topic, switched := c.manager.ResolveTopic(message, sess.LastTopic)
	if switched {
		logger.Debugf("advisor: topic switched from %q to %q", sess.LastTopic, topic)
		sess.History = conversation.TruncateOnSwitch(sess.History)
	}
	if topic == "" {
		return msgUnknownTopic
	}
	sess.LastTopic = topic
	c.save(sess)

	if !c.manager.IsBankingRelated(message) {
		return msgOffTopic
	}

	if reply, handled := c.productShortcuts(ctx, sess, message, lower, topic); handled {
		return reply
	}

	category, _ := c.classifier.Classify(message)
	return c.retrieveAndAnswer(ctx, sess, message, topic, category)
}

// productShortcuts covers the listing and comparison paths that bypass
// plain retrieval. handled is false when the message is an ordinary query.
func (c *Client) productShortcuts(ctx context.Context, sess *SessionData, message, lower, topic string) (string, bool) {
	if containsAny(lower, c.tables.ProductQueries) {
		return c.generalProductList(ctx), true
	}

	if strings.Contains(lower, "islamic") && strings.Contains(lower, "product") {
		grouped, err := c.lister.ListIslamicGrouped(ctx)
		if err != nil || len(grouped) == 0 {
			return "No Islamic products found.", true
		}
		lines := []string{"Midland Bank Islamic Products:"}
		for _, subcat := range []string{"Savings", "Loan", "Current"} {
			if len(grouped[subcat]) == 0 {
				continue
			}
			lines = append(lines, subcat+" Products")
			for _, p := range grouped[subcat] {
				lines = append(lines, "- "+p)
			}
		}
		return c.answerWithContext(ctx, sess, message, strings.Join(lines, "\n")), true
	}

	if strings.Contains(lower, "islamic") && strings.Contains(lower, "loan") {
		return c.islamicSubgroup(ctx, sess, message, "Loan", "No Islamic loan products found."), true
	}
	if strings.Contains(lower, "islamic") && strings.Contains(lower, "savings") {
		return c.islamicSubgroup(ctx, sess, message, "Savings", "No Islamic savings products found."), true
	}

	if strings.Contains(lower, "sme") && strings.Contains(lower, "product") {
		list, err := c.lister.SMEProductNames(ctx)
		if err != nil || len(list) == 0 {
			return "No SME products found.", true
		}
		return c.answerWithContext(ctx, sess, message, bulletList(list)), true
	}
	if strings.Contains(lower, "nrb") && strings.Contains(lower, "product") {
		list, err := c.lister.NRBProductNames(ctx)
		if err != nil || len(list) == 0 {
			return "No NRB products found.", true
		}
		return c.answerWithContext(ctx, sess, message, bulletList(list)), true
	}

	if strings.Contains(lower, "product") {
		cats := make([]string, 0, len(c.tables.CategoryMap))
		for cat := range c.tables.CategoryMap {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			if !containsAny(lower, c.tables.CategoryMap[cat]) {
				continue
			}
			list, err := c.lister.ListByCategory(ctx, cat)
			if err != nil || len(list) == 0 {
				return fmt.Sprintf("No %s products found.", cat), true
			}
			return c.answerWithContext(ctx, sess, message, bulletList(list)), true
		}
	}

	allProducts, err := c.lister.AllProductNames(ctx)
	if err != nil {
		logger.Warnf("advisor: product enumeration failed: %v", err)
		return "", false
	}

	if matched := products.ExtractMultipleProducts(message, allProducts); len(matched) == 2 {
		if reply, ok := c.compareProducts(ctx, sess, message, matched); ok {
			return reply, true
		}
	}

	if product := products.MatchProduct(message, allProducts); product != "" {
		blob, err := c.orchestrator.Retrieve(ctx, product)
		if err != nil {
			return msgBackendError, true
		}
		if strings.TrimSpace(blob) == "" {
			return fmt.Sprintf("Sorry, I couldn't find specific information on %s.", product), true
		}
		return c.answerWithContext(ctx, sess, message, blob), true
	}

	return "", false
}

func (c *Client) generalProductList(ctx context.Context) string {
	grouped, err := c.lister.ListGroupedByCategory(ctx)
	if err != nil || len(grouped) == 0 {
		return msgNoResults
	}
	cats := make([]string, 0, len(grouped))
	for cat := range grouped {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	lines := []string{"Midland Bank offers the following products:"}
	for _, cat := range cats {
		lines = append(lines, cat+" Products")
		for _, p := range grouped[cat] {
			lines = append(lines, "- "+p)
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (c *Client) islamicSubgroup(ctx context.Context, sess *SessionData, message, subcat, emptyReply string) string {
	grouped, err := c.lister.ListIslamicGrouped(ctx)
	if err != nil || len(grouped[subcat]) == 0 {
		return emptyReply
	}
	return c.answerWithContext(ctx, sess, message, bulletList(grouped[subcat]))
}

// compareProducts runs two sequential retrievals and one generation.
func (c *Client) compareProducts(ctx context.Context, sess *SessionData, message string, matched []string) (string, bool) {
	var contexts []string
	for _, prod := range matched[:2] {
		blob, err := c.orchestrator.Retrieve(ctx, prod)
		if err != nil {
			return msgBackendError, true
		}
		if strings.TrimSpace(blob) != "" {
			blob = llm.TruncateContext(blob, c.cfg.Retrieval.ContextMaxChars)
			contexts = append(contexts, fmt.Sprintf("*%s*\n%s", prod, strings.TrimSpace(blob)))
		}
	}
	if len(contexts) == 0 {
		return "", false
	}
	comparisonPrompt := "Compare the following two Midland Bank products side by side based on their features, eligibility, " +
		"benefits, and any other distinguishing aspects. Present the comparison in clear bullet points or a table if possible."
	combined := comparisonPrompt + "\n\n" + strings.Join(contexts, "\n\n")
	return c.answerWithContext(ctx, sess, message, combined), true
}

// retrieveAndAnswer is the default path: retrieve, shape by category,
// generate, with the uncertain-response product fallback.
func (c *Client) retrieveAndAnswer(ctx context.Context, sess *SessionData, message, topic, category string) string {
	blob, err := c.orchestrator.Retrieve(ctx, topic)
	if err != nil {
		logger.Errorf("advisor: retrieval failed: %v", err)
		return msgBackendError
	}
	if strings.TrimSpace(blob) == "" {
		return msgNothingRelevant
	}

	switch category {
	case "board":
		if extracted := textutil.ExtractBoardSentences(blob, nil); strings.TrimSpace(extracted) != "" {
			blob = extracted
		}
	case "management":
		if extracted := textutil.ExtractManagementSentences(blob, c.tables.ManagementRoles); strings.TrimSpace(extracted) != "" {
			blob = extracted
		}
	case "sponsor":
		if extracted := textutil.ExtractSponsorSentences(blob, nil); strings.TrimSpace(extracted) != "" {
			blob = extracted
		}
	}

	if products.IsChargeQuery(message) {
		if extracted := textutil.ExtractTargetPhrases(blob, chargePhrases); strings.TrimSpace(extracted) != "" {
			blob = extracted
		}
	}

	response, err := c.generate(ctx, sess, message, blob)
	if err != nil {
		logger.Errorf("advisor: generation failed: %v", err)
		return msgGenerationError
	}

	if products.IsProductListRequest(message) && topic != "" && uncertainResponse(response) {
		if list, lerr := c.lister.ListByCategory(ctx, topic); lerr == nil && len(list) > 0 {
			fallback := fmt.Sprintf("I couldn’t find detailed info, but here are other %s products:\n%s",
				titleCase(topic), bulletList(list))
			return c.remember(sess, message, fallback)
		}
	}

	return c.remember(sess, message, response)
}

// handleLocationSlot consumes the pending location value, filters branch
// data to it and generates the branch answer.
func (c *Client) handleLocationSlot(ctx context.Context, sess *SessionData, message string) string {
	location := strings.ToLower(strings.TrimSpace(message))
	sess.UserInfo["location"] = location
	sess.State = conversation.StateLocationReceived
	metrics.CountState(string(sess.State))
	c.save(sess)

	blob, err := c.orchestrator.Retrieve(ctx, location)
	if err != nil {
		logger.Errorf("advisor: branch retrieval failed: %v", err)
		return msgBackendError
	}
	filtered := conversation.FilterLocationLines(blob, location)
	if filtered == "" {
		return fmt.Sprintf("Thanks! Noted your location as %s, but I couldn't find any nearby branches.", titleCase(location))
	}

	prompt := fmt.Sprintf(
		"From the provided data, display only the Midland Bank branch or branches that directly match '%s'. "+
			"Do NOT mention other branches, unavailable information, or data limitations. "+
			"Only show confirmed details for the matched branch(es): branch name, address, hours, email, phone, and services. "+
			"Keep the tone concise and professional.", location)
	messages := llm.BuildMessageList(prompt, nil, message, filtered, c.cfg.Retrieval.ContextMaxChars)
	response, err := c.generator.Chat(ctx, messages)
	if err != nil {
		logger.Errorf("advisor: branch generation failed: %v", err)
		return msgGenerationError
	}
	return c.remember(sess, message, textutil.DedupLines(response))
}

// answerWithContext generates from a prebuilt context and records the turn.
func (c *Client) answerWithContext(ctx context.Context, sess *SessionData, message, blob string) string {
	response, err := c.generate(ctx, sess, message, blob)
	if err != nil {
		logger.Errorf("advisor: generation failed: %v", err)
		return msgGenerationError
	}
	return c.remember(sess, message, response)
}

func (c *Client) generate(ctx context.Context, sess *SessionData, message, blob string) (string, error) {
	messages := llm.BuildMessageList(c.tables.SystemPrompt, sess.History, message, blob, c.cfg.Retrieval.ContextMaxChars)
	return c.generator.Chat(ctx, messages)
}

// remember appends the turn to bounded history and persists the session.
func (c *Client) remember(sess *SessionData, userMessage, response string) string {
	now := time.Now()
	sess.History = append(sess.History,
		schema.ChatMessage{Role: schema.RoleUser, Content: userMessage, Timestamp: now},
		schema.ChatMessage{Role: schema.RoleAssistant, Content: response, Timestamp: now},
	)
	sess.History = conversation.TrimHistory(sess.History)
	c.save(sess)
	return response
}

func (c *Client) save(sess *SessionData) {
	if err := c.sessions.Put(sess); err != nil {
		logger.Warnf("advisor: session save failed: %v", err)
	}
}

func uncertainResponse(response string) bool {
	lower := strings.ToLower(response)
	return strings.TrimSpace(response) == "" ||
		strings.Contains(lower, "sorry") ||
		strings.Contains(lower, "not sure") ||
		strings.Contains(lower, "couldn’t find")
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
