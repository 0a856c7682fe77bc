package kernel

// Typed identifiers shared across bounded contexts. Keeping them as
// distinct string types prevents an app_id from being passed where a
// user id is expected and vice versa.

type DeveloperID string

func NewDeveloperID(id string) DeveloperID { return DeveloperID(id) }
func (d DeveloperID) String() string       { return string(d) }
func (d DeveloperID) IsEmpty() bool        { return string(d) == "" }

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

// AppID is the public identifier scoping end-user data to one tenant
// application. It is the value embedded in tokens, not the row id.
type AppID string

func NewAppID(id string) AppID { return AppID(id) }
func (a AppID) String() string { return string(a) }
func (a AppID) IsEmpty() bool  { return string(a) == "" }

// PortalAppID is the reserved app identifier for developer portal tokens.
const PortalAppID AppID = "portal"

type SessionID string

func NewSessionID(id string) SessionID { return SessionID(id) }
func (s SessionID) String() string     { return string(s) }
func (s SessionID) IsEmpty() bool      { return string(s) == "" }
