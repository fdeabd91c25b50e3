// Package intent describes what the user wants to see: a section, an
// optional subsection and an optional paging or refresh modifier.
package intent

// Channel tags one logical content category with its own loading,
// pagination and result state.
type Channel string

const (
	ChannelQuestions Channel = "questions"
	ChannelAnswers   Channel = "answers"
	ChannelComments  Channel = "comments"
	ChannelTags      Channel = "tags"
	ChannelAccount   Channel = "account"
	ChannelAuth      Channel = "auth"
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionRefresh
	ActionPaging
)

// Action modifies a base intent. The zero value is "none".
type Action struct {
	Kind      ActionKind
	PageCount int
}

func Refresh() Action {
	return Action{Kind: ActionRefresh}
}

func Paging(count int) Action {
	if count < 1 {
		count = 1
	}
	return Action{Kind: ActionPaging, PageCount: count}
}

// Page is the page the gateway should request for this action.
func (a Action) Page() int {
	if a.Kind == ActionPaging && a.PageCount > 1 {
		return a.PageCount
	}
	return 1
}

func (a Action) String() string {
	switch a.Kind {
	case ActionRefresh:
		return "refresh"
	case ActionPaging:
		return "paging"
	default:
		return "none"
	}
}

// Trending is a questions sort order understood by the API.
type Trending string

const (
	TrendingActivity Trending = "activity"
	TrendingVotes    Trending = "votes"
	TrendingCreation Trending = "creation"
	TrendingHot      Trending = "hot"
	TrendingWeek     Trending = "week"
	TrendingMonth    Trending = "month"
)

var AllTrending = []Trending{
	TrendingActivity,
	TrendingVotes,
	TrendingCreation,
	TrendingHot,
	TrendingWeek,
	TrendingMonth,
}

type SubsectionKind int

const (
	SubsectionTag SubsectionKind = iota
	SubsectionTrending
	SubsectionSearch
	SubsectionFavorites
)

// Subsection selects how the questions channel is browsed. Only the field
// matching Kind is meaningful.
type Subsection struct {
	Kind     SubsectionKind
	Trending Trending
	Tag      string
	Keywords string
}

func TrendingSort(t Trending) Subsection {
	return Subsection{Kind: SubsectionTrending, Trending: t}
}

func Tag(name string) Subsection {
	return Subsection{Kind: SubsectionTag, Tag: name}
}

func Search(keywords string) Subsection {
	return Subsection{Kind: SubsectionSearch, Keywords: keywords}
}

func Favorites() Subsection {
	return Subsection{Kind: SubsectionFavorites}
}

func (s Subsection) String() string {
	switch s.Kind {
	case SubsectionTrending:
		return "trending:" + string(s.Trending)
	case SubsectionSearch:
		return "search:" + s.Keywords
	case SubsectionFavorites:
		return "favorites"
	default:
		return "tag:" + s.Tag
	}
}

// Questions is an intent for the questions channel.
type Questions struct {
	Subsection Subsection
	Action     Action
}

// DefaultQuestions is the startup intent: browse by the selected tags with
// no modifier.
func DefaultQuestions() Questions {
	return Questions{Subsection: Tag("")}
}

func (q Questions) NextPage() Questions {
	return Questions{Subsection: q.Subsection, Action: Paging(q.Action.Page() + 1)}
}

func (q Questions) Refreshed() Questions {
	return Questions{Subsection: q.Subsection, Action: Refresh()}
}

// Answers is an intent for the answers of one question.
type Answers struct {
	QuestionID int64
	Action     Action
}

func (a Answers) NextPage() Answers {
	return Answers{QuestionID: a.QuestionID, Action: Paging(a.Action.Page() + 1)}
}

func (a Answers) Refreshed() Answers {
	return Answers{QuestionID: a.QuestionID, Action: Refresh()}
}

type TargetKind int

const (
	TargetQuestion TargetKind = iota
	TargetAnswer
)

// Target is the post whose comments are requested.
type Target struct {
	Kind TargetKind
	ID   int64
}

func OnQuestion(id int64) Target {
	return Target{Kind: TargetQuestion, ID: id}
}

func OnAnswer(id int64) Target {
	return Target{Kind: TargetAnswer, ID: id}
}

// Comments is an intent for the comments of a question or an answer.
type Comments struct {
	Target Target
	Action Action
}

func (c Comments) NextPage() Comments {
	return Comments{Target: c.Target, Action: Paging(c.Action.Page() + 1)}
}

func (c Comments) Refreshed() Comments {
	return Comments{Target: c.Target, Action: Refresh()}
}

type AccountSection string

const (
	AccountProfile  AccountSection = "profile"
	AccountActivity AccountSection = "activity"
	AccountInbox    AccountSection = "inbox"
)

type AuthAction string

const (
	AuthSignIn  AuthAction = "sign_in"
	AuthSignOut AuthAction = "sign_out"
)

// Section is the tagged variant over every intent the app can express.
// Only the payload matching Channel is meaningful; equality is structural.
type Section struct {
	Channel   Channel
	Questions Questions
	Answers   Answers
	Comments  Comments
	Account   AccountSection
	Auth      AuthAction
}

func QuestionsSection(q Questions) Section {
	return Section{Channel: ChannelQuestions, Questions: q}
}

func AnswersSection(a Answers) Section {
	return Section{Channel: ChannelAnswers, Answers: a}
}

func CommentsSection(c Comments) Section {
	return Section{Channel: ChannelComments, Comments: c}
}

func TagsSection() Section {
	return Section{Channel: ChannelTags}
}

func AccountSectionOf(s AccountSection) Section {
	return Section{Channel: ChannelAccount, Account: s}
}

func AuthSection(a AuthAction) Section {
	return Section{Channel: ChannelAuth, Auth: a}
}

// EnablePaging returns the next page of a pageable section and the section
// itself otherwise.
func (s Section) EnablePaging() Section {
	switch s.Channel {
	case ChannelQuestions:
		s.Questions = s.Questions.NextPage()
	case ChannelAnswers:
		s.Answers = s.Answers.NextPage()
	case ChannelComments:
		s.Comments = s.Comments.NextPage()
	}
	return s
}

// EnableRefresh marks a pageable section for a full reload from page 1.
func (s Section) EnableRefresh() Section {
	switch s.Channel {
	case ChannelQuestions:
		s.Questions = s.Questions.Refreshed()
	case ChannelAnswers:
		s.Answers = s.Answers.Refreshed()
	case ChannelComments:
		s.Comments = s.Comments.Refreshed()
	}
	return s
}
