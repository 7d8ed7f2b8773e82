package constants

const USER_AGENT = "awardtracker/1.0 (+https://github.com/Amund211/awardtracker)"

// Name of the client event that shows the award popup
const UNLOCK_CLIENT_EVENT = "Award_Unlocked"
