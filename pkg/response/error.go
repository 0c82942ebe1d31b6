package response

const (
	ServerError = "Server error, try again later"
	//----------------------
	MediaNotFound      = "Media not found"
	AnimeNotFound      = "Anime not found"
	MangaNotFound      = "Manga not found"
	GameNotFound       = "Game not found"
	CollectionNotFound = "Collection entry not found"
	JobNotFound        = "Import job not found"
	//----------------------
	UserNotFound  = "Cannot find user"
	EmailNotFound = "Cannot find user email"
	//----------------------
	InvalidRefreshToken = "Invalid RefreshToken"
	InvalidToken        = "Invalid/Stale Token"
	InvalidMediaType    = "Invalid media type"
	InvalidStatus       = "Invalid collection status"
	InvalidRating       = "Rating must be between 0 and 5 in 0.5 steps"
	InvalidEmail        = "Invalid email address"
	//----------------------
	UserPassNotMatch = "Username and password do not match"
	//----------------------
	BadRequestBody = "Incorrect request body"
	//----------------------
	UsernameAlreadyExist = "This username already exists"
	EmailAlreadyExist    = "This email already exists"
	AlreadyExist         = "Already exist"
	//----------------------
	ExportTypeNotSupported = "Export is only supported for anime and manga lists"
	EmptyImportList        = "Import list is empty"
	//----------------------
)
