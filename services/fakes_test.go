package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"gorm.io/gorm"
)

// 内存版仓储与外部依赖，供服务层测试使用。
// 行为对齐repositories包的真实实现：可见性过滤、排序与分页语义保持一致。

type fakeEntryRepo struct {
	seq     int
	entries []*models.Entry
}

func newFakeEntryRepo() *fakeEntryRepo { return &fakeEntryRepo{} }

func (f *fakeEntryRepo) WithTx(tx *gorm.DB) repositories.EntryRepository { return f }

func (f *fakeEntryRepo) Create(ctx context.Context, entry *models.Entry) error {
	f.seq++
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", f.seq)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	stored := *entry
	f.entries = append(f.entries, &stored)
	return nil
}

func (f *fakeEntryRepo) find(id string) *models.Entry {
	for _, entry := range f.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	entry := f.find(id)
	if entry == nil {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryRepo) UpdateStatus(ctx context.Context, id string, status models.EntryStatus) error {
	if entry := f.find(id); entry != nil {
		entry.Status = status
	}
	return nil
}

func (f *fakeEntryRepo) UpdateAnalysis(ctx context.Context, id string, status models.EntryStatus, emotion, eventsJSON string) error {
	if entry := f.find(id); entry != nil {
		entry.Status = status
		entry.Emotion = emotion
		entry.EventsJSON = eventsJSON
	}
	return nil
}

func (f *fakeEntryRepo) IncrementShareCount(ctx context.Context, id string) error {
	if entry := f.find(id); entry != nil {
		entry.ShareCount++
	}
	return nil
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func paginateEntries(entries []models.Entry, limit, offset int) []models.Entry {
	if limit <= 0 {
		return entries
	}
	if offset >= len(entries) {
		return []models.Entry{}
	}
	entries = entries[offset:]
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func (f *fakeEntryRepo) ListInRange(ctx context.Context, userID string, start, end time.Time, emotion string, limit, offset int) ([]models.Entry, error) {
	matched := make([]models.Entry, 0)
	for _, entry := range f.entries {
		if entry.UserID != userID || !entry.IsVisible || !inWindow(entry.CreatedAt, start, end) {
			continue
		}
		if emotion != "" && entry.Emotion != emotion {
			continue
		}
		matched = append(matched, *entry)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginateEntries(matched, limit, offset), nil
}

func (f *fakeEntryRepo) ListAnalyzedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Entry, error) {
	matched := make([]models.Entry, 0)
	for _, entry := range f.entries {
		if entry.UserID != userID || !entry.IsVisible || entry.Status != models.EntryStatusSuccess {
			continue
		}
		if !inWindow(entry.CreatedAt, start, end) {
			continue
		}
		matched = append(matched, *entry)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (f *fakeEntryRepo) ListPositive(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	matched := make([]models.Entry, 0)
	for _, entry := range f.entries {
		if entry.UserID != userID || !entry.IsVisible {
			continue
		}
		if entry.Status != models.EntryStatusSuccess || entry.Emotion != string(models.EmotionPositive) {
			continue
		}
		matched = append(matched, *entry)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginateEntries(matched, limit, offset), nil
}

func (f *fakeEntryRepo) DailyStats(ctx context.Context, userID string, start, end time.Time) ([]models.DailyEntryStat, error) {
	byDate := make(map[string]*models.DailyEntryStat)
	for _, entry := range f.entries {
		if entry.UserID != userID || !entry.IsVisible || !inWindow(entry.CreatedAt, start, end) {
			continue
		}
		date := entry.CreatedAt.Format("2006-01-02")
		stat, ok := byDate[date]
		if !ok {
			stat = &models.DailyEntryStat{Date: date}
			byDate[date] = stat
		}
		stat.Count++
		stat.WordCount += entry.WordCount
	}

	stats := make([]models.DailyEntryStat, 0, len(byDate))
	for _, stat := range byDate {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func (f *fakeEntryRepo) DistinctUserIDs(ctx context.Context, start, end time.Time) ([]string, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, entry := range f.entries {
		if !inWindow(entry.CreatedAt, start, end) || seen[entry.UserID] {
			continue
		}
		seen[entry.UserID] = true
		ids = append(ids, entry.UserID)
	}
	return ids, nil
}

type fakeImageRepo struct {
	seq    int
	images []models.EntryImage
}

func newFakeImageRepo() *fakeImageRepo { return &fakeImageRepo{} }

func (f *fakeImageRepo) WithTx(tx *gorm.DB) repositories.EntryImageRepository { return f }

func (f *fakeImageRepo) CreateBatch(ctx context.Context, images []models.EntryImage) error {
	for _, img := range images {
		f.seq++
		if img.ID == "" {
			img.ID = fmt.Sprintf("image-%d", f.seq)
		}
		f.images = append(f.images, img)
	}
	return nil
}

func (f *fakeImageRepo) ListByEntry(ctx context.Context, entryID string) ([]models.EntryImage, error) {
	matched := make([]models.EntryImage, 0)
	for _, img := range f.images {
		if img.EntryID == entryID {
			matched = append(matched, img)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].SortOrder < matched[j].SortOrder })
	return matched, nil
}

func (f *fakeImageRepo) ListByEntries(ctx context.Context, entryIDs []string) (map[string][]models.EntryImage, error) {
	result := make(map[string][]models.EntryImage)
	for _, id := range entryIDs {
		images, _ := f.ListByEntry(ctx, id)
		if len(images) > 0 {
			result[id] = images
		}
	}
	return result, nil
}

func (f *fakeImageRepo) UpdateUploadStatus(ctx context.Context, id, status string) error {
	for i := range f.images {
		if f.images[i].ID == id {
			f.images[i].UploadStatus = status
		}
	}
	return nil
}

func (f *fakeImageRepo) DeleteByEntry(ctx context.Context, entryID string) error {
	kept := f.images[:0]
	for _, img := range f.images {
		if img.EntryID != entryID {
			kept = append(kept, img)
		}
	}
	f.images = kept
	return nil
}

type fakeTagRepo struct {
	seq  int
	tags []*models.Tag
}

func newFakeTagRepo() *fakeTagRepo { return &fakeTagRepo{} }

func (f *fakeTagRepo) WithTx(tx *gorm.DB) repositories.TagRepository { return f }

func (f *fakeTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	f.seq++
	if tag.ID == "" {
		tag.ID = fmt.Sprintf("tag-%d", f.seq)
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now()
	}
	stored := *tag
	f.tags = append(f.tags, &stored)
	return nil
}

func (f *fakeTagRepo) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	for _, tag := range f.tags {
		if tag.ID == id {
			copied := *tag
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTagRepo) GetSystemByName(ctx context.Context, name string) (*models.Tag, error) {
	for _, tag := range f.tags {
		if tag.Name == name && tag.TagType == models.TagTypeSystem {
			copied := *tag
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTagRepo) ListAvailable(ctx context.Context, userID string) ([]models.Tag, error) {
	matched := make([]models.Tag, 0)
	for _, tag := range f.tags {
		if !tag.IsEnabled {
			continue
		}
		if tag.TagType == models.TagTypeSystem || (tag.TagType == models.TagTypeCustom && tag.UserID == userID) {
			matched = append(matched, *tag)
		}
	}
	return matched, nil
}

func (f *fakeTagRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	matched := make([]models.Tag, 0)
	for _, id := range ids {
		for _, tag := range f.tags {
			if tag.ID == id {
				matched = append(matched, *tag)
			}
		}
	}
	return matched, nil
}

type fakeEntryTagRepo struct {
	tags  *fakeTagRepo
	links []models.EntryTag
}

func newFakeEntryTagRepo(tags *fakeTagRepo) *fakeEntryTagRepo {
	return &fakeEntryTagRepo{tags: tags}
}

func (f *fakeEntryTagRepo) WithTx(tx *gorm.DB) repositories.EntryTagRepository { return f }

func (f *fakeEntryTagRepo) AddTagToEntry(ctx context.Context, entryID, tagID string) error {
	for _, link := range f.links {
		if link.EntryID == entryID && link.TagID == tagID {
			return nil
		}
	}
	f.links = append(f.links, models.EntryTag{EntryID: entryID, TagID: tagID})
	return nil
}

func (f *fakeEntryTagRepo) ReplaceEntryTags(ctx context.Context, entryID string, tagIDs []string) error {
	kept := f.links[:0]
	for _, link := range f.links {
		if link.EntryID != entryID {
			kept = append(kept, link)
		}
	}
	f.links = kept
	for _, tagID := range tagIDs {
		f.links = append(f.links, models.EntryTag{EntryID: entryID, TagID: tagID})
	}
	return nil
}

func (f *fakeEntryTagRepo) ListTagsByEntry(ctx context.Context, entryID string) ([]models.Tag, error) {
	matched := make([]models.Tag, 0)
	for _, link := range f.links {
		if link.EntryID != entryID {
			continue
		}
		if tag, _ := f.tags.GetByID(ctx, link.TagID); tag != nil {
			matched = append(matched, *tag)
		}
	}
	return matched, nil
}

func (f *fakeEntryTagRepo) ListTagsByEntries(ctx context.Context, entryIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag)
	for _, id := range entryIDs {
		tags, _ := f.ListTagsByEntry(ctx, id)
		if len(tags) > 0 {
			result[id] = tags
		}
	}
	return result, nil
}

func (f *fakeEntryTagRepo) ListEntryIDsByTag(ctx context.Context, tagID string) ([]string, error) {
	ids := make([]string, 0)
	for _, link := range f.links {
		if link.TagID == tagID {
			ids = append(ids, link.EntryID)
		}
	}
	return ids, nil
}

func (f *fakeEntryTagRepo) CountByTag(ctx context.Context, entryIDs []string) ([]models.TagBubble, error) {
	inSet := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		inSet[id] = true
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, link := range f.links {
		if !inSet[link.EntryID] {
			continue
		}
		if _, seen := counts[link.TagID]; !seen {
			order = append(order, link.TagID)
		}
		counts[link.TagID]++
	}

	bubbles := make([]models.TagBubble, 0, len(order))
	for _, tagID := range order {
		tag, _ := f.tags.GetByID(ctx, tagID)
		if tag == nil {
			continue
		}
		bubbles = append(bubbles, models.TagBubble{
			TagID:      tag.ID,
			TagName:    tag.Name,
			Color:      tag.Color,
			EventCount: counts[tagID],
		})
	}
	sort.SliceStable(bubbles, func(i, j int) bool { return bubbles[i].EventCount > bubbles[j].EventCount })
	return bubbles, nil
}

type fakeCardRepo struct {
	seq   int
	cards []*models.InsightCard
}

func newFakeCardRepo() *fakeCardRepo { return &fakeCardRepo{} }

func (f *fakeCardRepo) WithTx(tx *gorm.DB) repositories.InsightCardRepository { return f }

func (f *fakeCardRepo) Create(ctx context.Context, card *models.InsightCard) error {
	f.seq++
	if card.ID == "" {
		card.ID = fmt.Sprintf("card-%d", f.seq)
	}
	if card.GeneratedAt.IsZero() {
		card.GeneratedAt = time.Now()
	}
	stored := *card
	f.cards = append(f.cards, &stored)
	return nil
}

func (f *fakeCardRepo) find(id string) *models.InsightCard {
	for _, card := range f.cards {
		if card.ID == id {
			return card
		}
	}
	return nil
}

func (f *fakeCardRepo) GetByID(ctx context.Context, id string) (*models.InsightCard, error) {
	card := f.find(id)
	if card == nil {
		return nil, nil
	}
	copied := *card
	return &copied, nil
}

func (f *fakeCardRepo) Exists(ctx context.Context, userID, cardType string, start, end time.Time, configID string) (bool, error) {
	for _, card := range f.cards {
		if card.UserID != userID || card.CardType != cardType {
			continue
		}
		if !card.DataStartTime.Equal(start) || !card.DataEndTime.Equal(end) {
			continue
		}
		if configID != "" && card.ConfigID != configID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeCardRepo) LatestVisible(ctx context.Context, userID, cardType, configID string) (*models.InsightCard, error) {
	var latest *models.InsightCard
	for _, card := range f.cards {
		if card.UserID != userID || card.CardType != cardType || card.IsHidden {
			continue
		}
		if configID != "" && card.ConfigID != configID {
			continue
		}
		if latest == nil || card.GeneratedAt.After(latest.GeneratedAt) {
			latest = card
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeCardRepo) ListByUser(ctx context.Context, userID, cardType string, includeHidden bool, limit, offset int) ([]models.InsightCard, error) {
	matched := make([]models.InsightCard, 0)
	for _, card := range f.cards {
		if card.UserID != userID {
			continue
		}
		if !includeHidden && card.IsHidden {
			continue
		}
		if cardType != "" && card.CardType != cardType {
			continue
		}
		matched = append(matched, *card)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].GeneratedAt.After(matched[j].GeneratedAt)
	})
	if limit > 0 {
		if offset >= len(matched) {
			return []models.InsightCard{}, nil
		}
		matched = matched[offset:]
		if limit < len(matched) {
			matched = matched[:limit]
		}
	}
	return matched, nil
}

func (f *fakeCardRepo) MarkViewed(ctx context.Context, id string) error {
	if card := f.find(id); card != nil {
		card.IsViewed = true
		card.ViewCount++
	}
	return nil
}

func (f *fakeCardRepo) SetHidden(ctx context.Context, id string, hidden bool) error {
	if card := f.find(id); card != nil {
		card.IsHidden = hidden
	}
	return nil
}

func (f *fakeCardRepo) IncrementShareCount(ctx context.Context, id string) error {
	if card := f.find(id); card != nil {
		card.ShareCount++
	}
	return nil
}

type fakeConfigRepo struct {
	seq     int
	configs []*models.InsightCardConfig
}

func newFakeConfigRepo() *fakeConfigRepo { return &fakeConfigRepo{} }

func (f *fakeConfigRepo) WithTx(tx *gorm.DB) repositories.InsightConfigRepository { return f }

func (f *fakeConfigRepo) Create(ctx context.Context, config *models.InsightCardConfig) error {
	f.seq++
	if config.ID == "" {
		config.ID = fmt.Sprintf("config-%d", f.seq)
	}
	stored := *config
	f.configs = append(f.configs, &stored)
	return nil
}

func (f *fakeConfigRepo) find(id string) *models.InsightCardConfig {
	for _, config := range f.configs {
		if config.ID == id {
			return config
		}
	}
	return nil
}

func (f *fakeConfigRepo) GetByID(ctx context.Context, id string) (*models.InsightCardConfig, error) {
	config := f.find(id)
	if config == nil {
		return nil, nil
	}
	copied := *config
	return &copied, nil
}

func (f *fakeConfigRepo) GetSystemByType(ctx context.Context, userID, cardType string) (*models.InsightCardConfig, error) {
	for _, config := range f.configs {
		if config.UserID == userID && config.CardType == cardType && config.IsSystem {
			copied := *config
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeConfigRepo) ListByUser(ctx context.Context, userID string) ([]models.InsightCardConfig, error) {
	matched := make([]models.InsightCardConfig, 0)
	for _, config := range f.configs {
		if config.UserID == userID {
			matched = append(matched, *config)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].SortOrder < matched[j].SortOrder })
	return matched, nil
}

func (f *fakeConfigRepo) CountCustom(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, config := range f.configs {
		if config.UserID == userID && !config.IsSystem {
			count++
		}
	}
	return count, nil
}

func (f *fakeConfigRepo) Update(ctx context.Context, id string, values map[string]interface{}) error {
	config := f.find(id)
	if config == nil {
		return nil
	}
	for key, value := range values {
		switch key {
		case "name":
			config.Name = value.(string)
		case "time_range":
			config.TimeRange = value.(string)
		case "prompt":
			config.Prompt = value.(string)
		case "sort_order":
			config.SortOrder = value.(int)
		case "is_enabled":
			config.IsEnabled = value.(bool)
		case "is_system":
			config.IsSystem = value.(bool)
		}
	}
	return nil
}

func (f *fakeConfigRepo) Delete(ctx context.Context, id string) error {
	kept := f.configs[:0]
	for _, config := range f.configs {
		if config.ID != id {
			kept = append(kept, config)
		}
	}
	f.configs = kept
	return nil
}

type fakeGate struct {
	unsafeTexts  map[string]bool
	unsafeImages map[string]bool
	textErr      error
	imageErr     error
	textCalls    int
	imageCalls   int
}

func newFakeGate() *fakeGate {
	return &fakeGate{
		unsafeTexts:  make(map[string]bool),
		unsafeImages: make(map[string]bool),
	}
}

func (g *fakeGate) CheckText(ctx context.Context, content string) (*SafetyResult, error) {
	g.textCalls++
	if g.textErr != nil {
		return nil, g.textErr
	}
	if g.unsafeTexts[content] {
		return &SafetyResult{IsSafe: false, Label: "porn"}, nil
	}
	return &SafetyResult{IsSafe: true}, nil
}

func (g *fakeGate) CheckImage(ctx context.Context, imageURL string) (*SafetyResult, error) {
	g.imageCalls++
	if g.imageErr != nil {
		return nil, g.imageErr
	}
	if g.unsafeImages[imageURL] {
		return &SafetyResult{IsSafe: false, Label: "ad"}, nil
	}
	return &SafetyResult{IsSafe: true}, nil
}

type fakeTranscriber struct {
	text     string
	duration int
	err      error
	calls    []string
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audioURL string) (string, int, error) {
	t.calls = append(t.calls, audioURL)
	if t.err != nil {
		return "", 0, t.err
	}
	return t.text, t.duration, nil
}

type fakeAnalyzerClient struct {
	result *AnalysisResult
	err    error
	calls  []string
}

func (a *fakeAnalyzerClient) AnalyzeEntry(ctx context.Context, content string) (*AnalysisResult, error) {
	a.calls = append(a.calls, content)
	if a.err != nil {
		return nil, a.err
	}
	if a.result != nil {
		return a.result, nil
	}
	return &AnalysisResult{Events: []string{}, Emotion: string(models.EmotionNeutral), Tags: []string{}}, nil
}

type chatCall struct {
	system      string
	user        string
	temperature float64
}

type fakeChat struct {
	reply string
	err   error
	calls []chatCall
}

func (c *fakeChat) Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	c.calls = append(c.calls, chatCall{system: systemPrompt, user: userPrompt, temperature: temperature})
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type fakeDispatcher struct {
	reject     bool
	dispatched []string
}

func (d *fakeDispatcher) Dispatch(entryID, content string) bool {
	if d.reject {
		return false
	}
	d.dispatched = append(d.dispatched, entryID)
	return true
}

type fakeChartCache struct {
	data map[string][]byte
	sets int
	hits int
}

func newFakeChartCache() *fakeChartCache {
	return &fakeChartCache{data: make(map[string][]byte)}
}

func (c *fakeChartCache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	c.hits++
	return true
}

func (c *fakeChartCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.data[key] = raw
	c.sets++
}
