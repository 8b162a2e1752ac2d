package twitch

const userQuery = `
query GetUser($login: String!) {
  user(login: $login) {
    id
    login
    displayName
    profileImageURL(width: 300)
  }
}`

const userVideosQuery = `
query GetUserVideos($login: String!, $limit: Int!, $cursor: Cursor) {
  user(login: $login) {
    videos(first: $limit, after: $cursor, type: ARCHIVE) {
      edges {
        cursor
        node {
          id
          title
          lengthSeconds
          createdAt
        }
      }
      pageInfo {
        hasNextPage
      }
    }
  }
}`

const videoCommentsQuery = `
query VideoCommentsByOffsetOrCursor($videoID: ID!, $contentOffsetSeconds: Int, $cursor: Cursor) {
  video(id: $videoID) {
    lengthSeconds
    title
    createdAt
    previewThumbnailURL(width: 320, height: 180)
    owner {
        login
        displayName
    }
    comments(contentOffsetSeconds: $contentOffsetSeconds, after: $cursor) {
      edges {
        cursor
        node {
          id
          createdAt
          contentOffsetSeconds
          commenter {
            id
            login
            displayName
          }
          message {
            fragments {
              text
            }
          }
        }
      }
      pageInfo {
        hasNextPage
      }
    }
  }
}`
